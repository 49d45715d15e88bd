package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tg-vault-notifier/internal/domain"
)

type fixedSettings struct {
	settings domain.Settings
}

func (s *fixedSettings) Load(context.Context) (domain.Settings, error) { return s.settings, nil }
func (s *fixedSettings) Save(context.Context, domain.Settings) error   { return nil }

func newTestSender(baseURL string) *Sender {
	repo := &fixedSettings{settings: domain.Settings{
		TelegramToken:  "test-token",
		TelegramChatID: "42",
	}}
	s := NewSender(repo, zerolog.Nop())
	s.baseURL = baseURL
	return s
}

func TestSendBuildsBotAPIRequest(t *testing.T) {
	var gotPath, gotChat, gotText, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotChat = r.URL.Query().Get("chat_id")
		gotText = r.URL.Query().Get("text")
		gotMode = r.URL.Query().Get("parse_mode")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := newTestSender(srv.URL)
	if err := s.Send(context.Background(), ">📅 задача `Taxes`"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("неверный путь запроса: %q", gotPath)
	}
	if gotChat != "42" || gotMode != "MarkdownV2" {
		t.Fatalf("неверные параметры: chat=%q mode=%q", gotChat, gotMode)
	}
	if !strings.Contains(gotText, "Taxes") {
		t.Fatalf("текст сообщения потерян: %q", gotText)
	}
}

func TestSendFailsOnNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	s := newTestSender(srv.URL)
	err := s.Send(context.Background(), "текст")
	if err == nil {
		t.Fatal("ожидали ошибку при ok=false")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("ошибка должна содержать описание из ответа: %v", err)
	}
}

func TestSendFailsOnGarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("не json"))
	}))
	defer srv.Close()

	s := newTestSender(srv.URL)
	if err := s.Send(context.Background(), "текст"); err == nil {
		t.Fatal("ожидали ошибку разбора ответа")
	}
}

func TestSendFailsOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже остановлен

	s := newTestSender(srv.URL)
	if err := s.Send(context.Background(), "текст"); err == nil {
		t.Fatal("ожидали транспортную ошибку")
	}
}
