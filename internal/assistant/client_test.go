package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization başlığı hatalı: %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("istek gövdesi çözümlenemedi: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model hatalı: %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("mesaj yapısı hatalı: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Gıda maliyetiniz %32."}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")
	reply, err := client.Chat(context.Background(), "sistem bağlamı", "maliyetim ne durumda?")
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if reply != "Gıda maliyetiniz %32." {
		t.Errorf("cevap hatalı: %q", reply)
	}
}

func TestChatWithoutAPIKey(t *testing.T) {
	client := NewClient("http://localhost:0", "", "test-model")
	_, err := client.Chat(context.Background(), "", "merhaba")
	if err != ErrNotConfigured {
		t.Fatalf("ErrNotConfigured beklenirken: %v", err)
	}
}

func TestChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")
	_, err := client.Chat(context.Background(), "", "merhaba")
	if err == nil {
		t.Fatal("API hatası yüzeye çıkmalıydı")
	}
}
