package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrNoChat = errors.New("telegram: chat id not configured")

// sender: lo que usamos de *tgbotapi.BotAPI.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher manda el formato generado al chat del almacén.
type Dispatcher struct {
	api    sender
	chatID int64
	log    *slog.Logger
}

// New conecta con la API de bots (hace getMe).
func New(token string, chatID int64, log *slog.Logger) (*Dispatcher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)
	return newDispatcher(api, chatID, log)
}

func newDispatcher(api sender, chatID int64, log *slog.Logger) (*Dispatcher, error) {
	if chatID == 0 {
		return nil, ErrNoChat
	}
	return &Dispatcher{api: api, chatID: chatID, log: log}, nil
}

// SendDocument sube el archivo como documento. La librería no recibe contexto,
// así que solo dejamos de esperar cuando ctx termina.
func (d *Dispatcher) SendDocument(ctx context.Context, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(d.chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: data,
	})
	doc.Caption = caption

	done := make(chan error, 1)
	go func() {
		_, err := d.api.Send(doc)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			d.log.Error("send document failed", "file", name, "err", err)
			return fmt.Errorf("telegram send: %w", err)
		}
		d.log.Info("document sent", "file", name, "chat_id", d.chatID)
		return nil
	}
}
