package history

import (
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestClassifyFormats(t *testing.T) {
	stamp := forwardStamp()
	base := tgbotapi.Message{
		ForwardDate: forwardEpoch,
		ForwardFrom: &tgbotapi.User{UserName: "alice", FirstName: "Alice"},
	}

	tests := []struct {
		name  string
		shape func(m tgbotapi.Message) tgbotapi.Message
		want  string
	}{
		{
			name: "photo with caption",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Photo = []tgbotapi.PhotoSize{{FileID: "p"}}
				m.Caption = "sunset"
				return m
			},
			want: fmt.Sprintf("%s - alice: [Photo] sunset", stamp),
		},
		{
			name: "gif omits the date",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Animation = &tgbotapi.Animation{FileID: "a"}
				return m
			},
			want: "alice: [GIF]",
		},
		{
			name: "voice with duration",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Voice = &tgbotapi.Voice{FileID: "v", Duration: 7}
				return m
			},
			want: fmt.Sprintf("%s - alice: [Voice Message - 7s]", stamp),
		},
		{
			name: "sticker",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Sticker = &tgbotapi.Sticker{FileID: "s"}
				return m
			},
			want: fmt.Sprintf("%s - alice: [Sticker]", stamp),
		},
		{
			name: "video with duration",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Video = &tgbotapi.Video{FileID: "v", Duration: 12}
				return m
			},
			want: fmt.Sprintf("%s - alice: [Video - 12s]", stamp),
		},
		{
			name: "document with filename",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Document = &tgbotapi.Document{FileID: "d", FileName: "report.pdf"}
				m.Caption = "q3 numbers"
				return m
			},
			want: fmt.Sprintf("%s - alice: [report.pdf] q3 numbers", stamp),
		},
		{
			name: "plain text",
			shape: func(m tgbotapi.Message) tgbotapi.Message {
				m.Text = "hello"
				return m
			},
			want: fmt.Sprintf("%s - alice: hello", stamp),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.shape(base)); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyPriorityPhotoBeatsDocument(t *testing.T) {
	msg := textMsg("")
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "p"}}
	msg.Document = &tgbotapi.Document{FileID: "d", FileName: "file.bin"}

	want := fmt.Sprintf("%s - alice: [Photo] ", forwardStamp())
	if got := Classify(msg); got != want {
		t.Errorf("Classify() = %q, want photo to win: %q", got, want)
	}
}

func TestSenderResolutionOrder(t *testing.T) {
	tests := []struct {
		name string
		msg  tgbotapi.Message
		want string
	}{
		{
			name: "explicit forward sender name wins",
			msg: tgbotapi.Message{
				ForwardSenderName: "Hidden User",
				ForwardFrom:       &tgbotapi.User{UserName: "alice", FirstName: "Alice"},
			},
			want: "Hidden User",
		},
		{
			name: "handle before first name",
			msg:  tgbotapi.Message{ForwardFrom: &tgbotapi.User{UserName: "alice", FirstName: "Alice"}},
			want: "alice",
		},
		{
			name: "first name as last resort",
			msg:  tgbotapi.Message{ForwardFrom: &tgbotapi.User{FirstName: "Alice"}},
			want: "Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := senderName(tt.msg); got != tt.want {
				t.Errorf("senderName() = %q, want %q", got, tt.want)
			}
		})
	}
}
