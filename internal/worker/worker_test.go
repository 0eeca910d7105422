package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/infrastructure/imageio"
	"eutectic-bot/internal/infrastructure/segmentation"
	"eutectic-bot/internal/infrastructure/storage"
)

// writeMicrograph сохраняет 30x30 снимок: тёмный квадрат 20x20 и отрезок из 5 пикселей.
func writeMicrograph(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Pix[y*30+x] = 40
		}
	}
	for x := 25; x < 30; x++ {
		img.Pix[25*30+x] = 40
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, "sample.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	out := t.TempDir()
	svc := app.NewAnalysisService(segmentation.NewAnalyzer(), imageio.NewCodec(), storage.NewFileArtifactStore(out), nil)
	return NewHandler(svc, entity.DefaultAnalysisParams(), entity.FormatPNG), out
}

func TestHandleMessage_StoresArtifactsAndReport(t *testing.T) {
	h, out := newTestHandler(t)
	src := writeMicrograph(t, t.TempDir())

	msg, err := json.Marshal(AnalysisTask{ID: "task-1", SourcePath: src, Format: "tif"})
	require.NoError(t, err)

	report, err := h.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "task-1", report.ID)
	assert.Equal(t, src, report.Source)
	assert.InDelta(t, 0.45, report.FractionBefore, 1e-12)
	assert.InDelta(t, 400.0/900.0, report.FractionAfter, 1e-12)

	for _, name := range []string{"original_image.tiff", "otsu_thresh.tiff", "cleaned_binary.tiff", "report.json"} {
		assert.FileExists(t, filepath.Join(out, "task-1", name))
	}

	data, err := os.ReadFile(filepath.Join(out, "task-1", "report.json"))
	require.NoError(t, err)
	var saved entity.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, report.FractionAfter, saved.FractionAfter)
	assert.Equal(t, 1, saved.RegionsAfter.Count)
}

func TestHandleMessage_GeneratesIDAndAppliesMinSize(t *testing.T) {
	h, out := newTestHandler(t)
	src := writeMicrograph(t, t.TempDir())
	minSize := 5

	msg, err := json.Marshal(AnalysisTask{SourcePath: src, MinSize: &minSize})
	require.NoError(t, err)

	report, err := h.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	assert.Equal(t, 5, report.MinRegionSize)
	assert.InDelta(t, report.FractionBefore, report.FractionAfter, 1e-12)
	assert.FileExists(t, filepath.Join(out, report.ID, "cleaned_binary.png"))
}

func TestHandleMessage_Errors(t *testing.T) {
	h, _ := newTestHandler(t)
	src := writeMicrograph(t, t.TempDir())
	zero := 0

	tests := []struct {
		name string
		task any
		want error
	}{
		{name: "no source", task: AnalysisTask{ID: "a"}, want: ErrEmptySource},
		{name: "zero min size", task: AnalysisTask{SourcePath: src, MinSize: &zero}, want: entity.ErrInvalidParameter},
		{name: "bad polarity", task: AnalysisTask{SourcePath: src, Polarity: "grey"}, want: entity.ErrInvalidParameter},
		{name: "bad format", task: AnalysisTask{SourcePath: src, Format: "gif"}, want: entity.ErrInvalidParameter},
		{name: "missing file", task: AnalysisTask{SourcePath: filepath.Join(t.TempDir(), "nope.png")}, want: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := json.Marshal(tt.task)
			require.NoError(t, err)
			_, err = h.HandleMessage(context.Background(), msg)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := h.HandleMessage(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}

func TestHandleMessage_InvalidImage(t *testing.T) {
	h, _ := newTestHandler(t)
	src := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o644))

	msg, err := json.Marshal(AnalysisTask{SourcePath: src})
	require.NoError(t, err)
	_, err = h.HandleMessage(context.Background(), msg)
	assert.ErrorIs(t, err, entity.ErrInvalidImage)
}

type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestConsumer_ProcessesMessagesUntilCancelled(t *testing.T) {
	h, out := newTestHandler(t)
	src := writeMicrograph(t, t.TempDir())

	good, err := json.Marshal(AnalysisTask{ID: "ok", SourcePath: src})
	require.NoError(t, err)
	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte("garbage")},
		{Value: good},
	}}
	c := &Consumer{reader: reader, handler: h}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "ok", "report.json"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.True(t, reader.closed)
}
