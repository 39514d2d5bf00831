package log

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, ctx.Value(CorrelationIDKey))
	assert.Nil(t, context.Background().Value(CorrelationIDKey))
}

func TestForContext(t *testing.T) {
	SetupTestLogger()
	hook := test.NewGlobal()
	defer hook.Reset()

	tests := []struct {
		name     string
		ctx      func() context.Context
		validate func(t *testing.T, entry *logrus.Entry)
	}{
		{
			name: "sem campos de rastreio",
			ctx:  context.Background,
			validate: func(t *testing.T, entry *logrus.Entry) {
				assert.NotContains(t, entry.Data, string(CorrelationIDKey))
				assert.NotContains(t, entry.Data, "user_id")
			},
		},
		{
			name: "correlation id e usuário",
			ctx: func() context.Context {
				ctx, _ := WithCorrelationID(context.Background())
				return WithActor(ctx, "user-1", "agency-1")
			},
			validate: func(t *testing.T, entry *logrus.Entry) {
				assert.NotEmpty(t, entry.Data[string(CorrelationIDKey)])
				assert.Equal(t, "user-1", entry.Data["user_id"])
				assert.Equal(t, "agency-1", entry.Data["agency_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()

			ForContext(tt.ctx()).
				WithFields(Fields{"proposal_id": "p-1"}).
				WithError(errors.New("falha")).
				Warn("mensagem")

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Equal(t, "p-1", entry.Data["proposal_id"])
			assert.NotNil(t, entry.Data[logrus.ErrorKey])
			tt.validate(t, entry)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	assert.True(t, IsDevelopment())

	t.Setenv("APP_ENV", "production")
	assert.False(t, IsDevelopment())
}
