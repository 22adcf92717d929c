package notify

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	fail bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fail {
		return tgbotapi.Message{}, errors.New("network down")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func batch() []insights.ProactiveInsight {
	return []insights.ProactiveInsight{
		{ID: "i1", Priority: insights.PriorityUrgent, Title: "Urgent", Message: "m", ValidUntil: time.Now().Add(time.Hour)},
		{ID: "i2", Priority: insights.PriorityHigh, Title: "High", Message: "m", ValidUntil: time.Now().Add(time.Hour)},
		{ID: "i3", Priority: insights.PriorityLow, Title: "Low", Message: "m", ValidUntil: time.Now().Add(time.Hour)},
	}
}

func TestNew_DisabledWithoutToken(t *testing.T) {
	n, err := New(config.TelegramConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, n.Enabled())
	assert.Equal(t, 0, n.NotifyUrgent("u1", batch()))
}

func TestNotifyUrgent_SendsHighAndUrgentOnly(t *testing.T) {
	fake := &fakeSender{}
	n := &Notifier{api: fake, chatID: 42, logger: zap.NewNop(), enabled: true}

	sent := n.NotifyUrgent("u1", batch())

	assert.Equal(t, 2, sent)
	require.Len(t, fake.sent, 2)
}

func TestNotifyUrgent_FailuresAreNonFatal(t *testing.T) {
	fake := &fakeSender{fail: true}
	n := &Notifier{api: fake, chatID: 42, logger: zap.NewNop(), enabled: true}

	sent := n.NotifyUrgent("u1", batch())

	assert.Equal(t, 0, sent)
}
