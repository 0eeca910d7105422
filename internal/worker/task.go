package worker

// AnalysisTask сообщение из Kafka: путь к снимку и необязательные параметры анализа.
type AnalysisTask struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
	MinSize    *int   `json:"min_size,omitempty"`
	Polarity   string `json:"polarity,omitempty"`
	Format     string `json:"format,omitempty"`
}
