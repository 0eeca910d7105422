package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/container"
	"eutectic-bot/internal/domain/entity"
)

// Options ограничения бота
type Options struct {
	PreviewMaxSide int
	MaxUploadBytes int64
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	analysis *app.AnalysisService
	opts     Options
	client   *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logrus.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	return &Bot{
		api:      api,
		users:    c.UserService,
		analysis: c.AnalysisService,
		opts:     opts,
		client:   http.DefaultClient,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", msg.From.ID).Error("Error getting user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото и изображений, присланных файлом
	if fileID, size, ok := imageFile(msg); ok {
		b.handleImage(ctx, msg, user, fileID, size)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	arg := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "analyze":
		if _, err := b.users.BeginAnalysis(ctx, user.ID, chatID); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Error saving user state")
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgAwaitingImage)

	case "format":
		if arg == "" {
			b.sendMessage(chatID, msgFormatUsage)
			return
		}
		updated, err := b.users.SetExportFormat(ctx, user.ID, chatID, arg)
		b.replySettings(chatID, updated, err, msgFormatUsage)

	case "minsize":
		size, err := strconv.Atoi(arg)
		if err != nil {
			b.sendMessage(chatID, msgMinSizeUsage)
			return
		}
		updated, err := b.users.SetMinRegionSize(ctx, user.ID, chatID, size)
		b.replySettings(chatID, updated, err, msgMinSizeUsage)

	case "polarity":
		if arg == "" {
			b.sendMessage(chatID, msgPolarityUsage)
			return
		}
		updated, err := b.users.SetPolarity(ctx, user.ID, chatID, arg)
		b.replySettings(chatID, updated, err, msgPolarityUsage)

	case "settings":
		b.sendMessage(chatID, formatSettings(user.Settings))

	case "cancel":
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Error saving user state")
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage анализирует присланное изображение и отправляет отчёт и три файла
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string, size int) {
	chatID := msg.Chat.ID
	log := logrus.WithFields(logrus.Fields{"user_id": user.ID, "chat_id": chatID})

	if b.opts.MaxUploadBytes > 0 && int64(size) > b.opts.MaxUploadBytes {
		b.sendMessage(chatID, msgTooLarge)
		return
	}

	// Устанавливаем состояние "обработка"
	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.WithError(err).Error("Error downloading image")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	log = log.WithField("bytes", len(imageData))
	out, err := b.analysis.Analyze(ctx, imageData, user.Settings.Params(), user.Settings.ExportFormat)
	if err != nil {
		log.WithError(err).Warn("Analysis failed")
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	log.WithFields(logrus.Fields{
		"threshold":       out.Result.Threshold,
		"fraction_before": out.Result.FractionBefore,
		"fraction_after":  out.Result.FractionAfter,
	}).Info("Image analyzed")

	if preview, err := b.analysis.Preview(out.Result.Cleaned, b.opts.PreviewMaxSide); err != nil {
		log.WithError(err).Warn("Preview failed")
	} else {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "cleaned_preview.png", Bytes: preview})
		photo.Caption = msgPreviewCaption
		b.send(photo)
	}

	b.sendMessage(chatID, formatReport(out.Result))

	for _, a := range out.Artifacts() {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: a.Filename(), Bytes: a.Data})
		doc.Caption = artifactCaption(a)
		b.send(doc)
	}
}

func (b *Bot) replySettings(chatID int64, user *entity.User, err error, usage string) {
	if err != nil {
		if errors.Is(err, entity.ErrInvalidParameter) {
			b.sendMessage(chatID, usage)
			return
		}
		logrus.WithError(err).Error("Error saving settings")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, formatSettings(user.Settings))
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Error saving user state")
		return
	}
	user.SetState(state)
}

// imageFile возвращает файл изображения из сообщения: фото максимального размера или документ image/*
func imageFile(msg *tgbotapi.Message) (string, int, bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, photo.FileSize, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, msg.Document.FileSize, true
	}
	return "", 0, false
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if b.opts.MaxUploadBytes > 0 {
		body = io.LimitReader(resp.Body, b.opts.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if b.opts.MaxUploadBytes > 0 && int64(len(data)) > b.opts.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", b.opts.MaxUploadBytes)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logrus.WithError(err).Error("Error sending message")
	}
}
