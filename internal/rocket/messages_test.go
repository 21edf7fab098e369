package rocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestSendMessage(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		requireSessionHeaders(t, r, "tok-1", "U1")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":{"_id":"M1","rid":"R1","msg":"hi there",
			"ts":"2024-01-01T00:00:00Z","u":{"_id":"U1","username":"svc-account","name":"Service Account"}}}`))
	})
	client, _ := newTestClient(t, mux)

	msg, err := client.SendMessage(context.Background(), "R1", "hi there")
	if err != nil {
		t.Fatalf("expected send success, got %v", err)
	}

	if msg.ID != "M1" || msg.RoomID != "R1" || msg.Body != "hi there" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Author.Username != "svc-account" || msg.Author.Name != "Service Account" {
		t.Errorf("unexpected author: %+v", msg.Author)
	}

	if gotBody["roomId"] != "R1" || gotBody["text"] != "hi there" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
}

func TestSendMessage_MissingMessageKey(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.SendMessage(context.Background(), "R1", "hi")
	if !IsKind(err, KindMessageSend) {
		t.Fatalf("expected message send error, got %v", err)
	}
}

func TestGetMessages(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/channels.messages", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("roomId"); got != "R1" {
			t.Errorf("expected roomId=R1, got %q", got)
		}
		if got := q.Get("count"); got != "50" {
			t.Errorf("expected count=50, got %q", got)
		}
		_, _ = w.Write([]byte(`{"messages":[
			{"_id":"M1","rid":"R1","msg":"hi","ts":"2024-01-01T00:00:00Z","u":{"_id":"U1","username":"alice"}},
			{"_id":"M2","rid":"R1","msg":"older","ts":"2023-12-31T23:59:00Z","u":{"_id":"U2","username":"bob"}}
		]}`))
	})
	client, _ := newTestClient(t, mux)

	msgs, err := client.GetMessages(context.Background(), "R1", 50)
	if err != nil {
		t.Fatalf("expected list success, got %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	first := msgs[0]
	if first.Body != "hi" || first.Author.Username != "alice" {
		t.Errorf("unexpected first message: %+v", first)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, first.Timestamp)
	}

	// upstream ordering is preserved, no re-sorting
	if msgs[1].ID != "M2" {
		t.Errorf("expected M2 second, got %q", msgs[1].ID)
	}
}

func TestGetMessages_DefaultLimit(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/channels.messages", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("count"); got != "50" {
			t.Errorf("expected default count=50, got %q", got)
		}
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})
	client, _ := newTestClient(t, mux)

	if _, err := client.GetMessages(context.Background(), "R1", 0); err != nil {
		t.Fatalf("expected list success, got %v", err)
	}
}

func TestGetMessages_MissingMessagesKey(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/channels.messages", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"room not found"}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.GetMessages(context.Background(), "nope", 10)
	if !IsKind(err, KindMessageList) {
		t.Fatalf("expected message list error, got %v", err)
	}
}

func TestSearchMessages_GlobalOmitsRoomID(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("searchText"); got != "hello" {
			t.Errorf("expected searchText=hello, got %q", got)
		}
		if _, present := q["roomId"]; present {
			t.Error("global search must not send a roomId parameter")
		}
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})
	client, _ := newTestClient(t, mux)

	if _, err := client.SearchMessages(context.Background(), "hello", ""); err != nil {
		t.Fatalf("expected search success, got %v", err)
	}
}

func TestSearchMessages_RoomScoped(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("roomId"); got != "R1" {
			t.Errorf("expected roomId=R1, got %q", got)
		}
		_, _ = w.Write([]byte(`{"messages":[{"_id":"M1","rid":"R1","msg":"hello world"}]}`))
	})
	client, _ := newTestClient(t, mux)

	msgs, err := client.SearchMessages(context.Background(), "hello", "R1")
	if err != nil {
		t.Fatalf("expected search success, got %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "hello world" {
		t.Errorf("unexpected search result: %+v", msgs)
	}
}

func TestSearchMessages_MissingMessagesKey(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.SearchMessages(context.Background(), "hello", "")
	if !IsKind(err, KindSearch) {
		t.Fatalf("expected search error, got %v", err)
	}
}

func TestUpload_OnlyFirstFileSent(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/rooms.upload/R1", func(w http.ResponseWriter, r *http.Request) {
		requireSessionHeaders(t, r, "tok-1", "U1")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		if got := r.FormValue("msg"); got != "hi" {
			t.Errorf("expected msg=hi, got %q", got)
		}
		if got := r.FormValue("roomId"); got != "R1" {
			t.Errorf("expected roomId=R1, got %q", got)
		}

		files := r.MultipartForm.File["file"]
		if len(files) != 1 {
			t.Fatalf("expected exactly 1 file part, got %d", len(files))
		}
		if files[0].Filename != "a.txt" {
			t.Errorf("expected first file a.txt, got %q", files[0].Filename)
		}
		f, err := files[0].Open()
		if err != nil {
			t.Fatalf("failed to open file part: %v", err)
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		if string(content) != "contents of A" {
			t.Errorf("expected file A contents, got %q", content)
		}

		_, _ = w.Write([]byte(`{"success":true,"message":{"_id":"M1","rid":"R1","msg":"hi",
			"ts":"2024-01-01T00:00:00Z","u":{"_id":"U1","username":"svc-account"},
			"attachments":[{"title":"a.txt","type":"file","title_link":"/file-upload/abc/a.txt"}]}}`))
	})
	client, _ := newTestClient(t, mux)

	files := []File{
		{Name: "a.txt", ContentType: "text/plain", Reader: strings.NewReader("contents of A")},
		{Name: "b.txt", ContentType: "text/plain", Reader: strings.NewReader("contents of B")},
	}
	msg, err := client.SendMessageWithAttachments(context.Background(), "R1", "hi", files)
	if err != nil {
		t.Fatalf("expected upload success, got %v", err)
	}

	if len(msg.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(msg.Attachments))
	}
	att := msg.Attachments[0]
	if att.Title != "a.txt" || att.Link != "/file-upload/abc/a.txt" {
		t.Errorf("unexpected attachment: %+v", att)
	}
	if att.LinkIsDownload {
		t.Error("expected link_is_download default false when key absent")
	}
	if att.ImageSizeBytes != nil {
		t.Error("expected nil image size when key absent")
	}
}

func TestUpload_UpstreamReportsFailure(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/rooms.upload/R1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	client, _ := newTestClient(t, mux)

	files := []File{{Name: "a.txt", Reader: strings.NewReader("x")}}
	_, err := client.SendMessageWithAttachments(context.Background(), "R1", "hi", files)
	if !IsKind(err, KindMessageUpload) {
		t.Fatalf("expected message upload error, got %v", err)
	}
}

func TestUpload_SuccessWithoutMessage(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/rooms.upload/R1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	client, _ := newTestClient(t, mux)

	files := []File{{Name: "a.txt", Reader: strings.NewReader("x")}}
	_, err := client.SendMessageWithAttachments(context.Background(), "R1", "hi", files)
	if !IsKind(err, KindMessageUpload) {
		t.Fatalf("expected message upload error, got %v", err)
	}
}

func TestUpload_NoFilesFallsBackToPlainSend(t *testing.T) {
	mux := http.NewServeMux()
	handleLogin(mux, nil, "tok-1", "U1")
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"_id":"M1","rid":"R1","msg":"hi"}}`))
	})
	client, _ := newTestClient(t, mux)

	msg, err := client.SendMessageWithAttachments(context.Background(), "R1", "hi", nil)
	if err != nil {
		t.Fatalf("expected fallback send success, got %v", err)
	}
	if msg.ID != "M1" {
		t.Errorf("unexpected message: %+v", msg)
	}
}
