//go:build unit

package gateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coupon-manager/internal/gateway"
	"coupon-manager/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solapiTestConfig(sendURL string) gateway.SolapiConfig {
	return gateway.SolapiConfig{
		APIKey:     "test-api-key",
		APISecret:  "test-api-secret",
		FromNumber: "010-9999-8888",
		SendURL:    sendURL,
		Timeout:    5 * time.Second,
	}
}

func TestAuthHeader(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	header, err := gateway.AuthHeader("test-api-key", "test-api-secret", at)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(header, "HMAC-SHA256 "))

	fields := map[string]string{}
	for _, part := range strings.Split(strings.TrimPrefix(header, "HMAC-SHA256 "), ", ") {
		kv := strings.SplitN(part, "=", 2)
		require.Len(t, kv, 2)
		fields[kv[0]] = kv[1]
	}

	assert.Equal(t, "test-api-key", fields["apiKey"])
	assert.Equal(t, "2025-06-01T12:00:00Z", fields["date"])
	assert.Len(t, fields["salt"], 32)

	mac := hmac.New(sha256.New, []byte("test-api-secret"))
	mac.Write([]byte(fields["date"] + fields["salt"]))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), fields["signature"])
}

func TestAuthHeaderSaltIsFresh(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := gateway.AuthHeader("k", "s", at)
	require.NoError(t, err)
	second, err := gateway.AuthHeader("k", "s", at)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSenderSend(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	t.Run("成功時はメッセージを正しく組み立てる", func(t *testing.T) {
		var captured struct {
			Messages []struct {
				To   string `json:"to"`
				From string `json:"from"`
				Text string `json:"text"`
			} `json:"messages"`
		}
		var auth string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &captured)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sender := gateway.NewSender(solapiTestConfig(server.URL), clk)
		err := sender.Send(ctx, "01012345678", "쿠폰 ABCD2345")
		require.NoError(t, err)

		require.Len(t, captured.Messages, 1)
		assert.Equal(t, "01012345678", captured.Messages[0].To)
		assert.Equal(t, "01099998888", captured.Messages[0].From)
		assert.Equal(t, "쿠폰 ABCD2345", captured.Messages[0].Text)
		assert.Contains(t, auth, "HMAC-SHA256 apiKey=test-api-key")
	})

	t.Run("認証情報なしは即エラー", func(t *testing.T) {
		sender := gateway.NewSender(gateway.SolapiConfig{SendURL: "http://unused"}, clk)
		err := sender.Send(ctx, "01012345678", "text")
		require.ErrorIs(t, err, gateway.ErrNotConfigured)
	})

	t.Run("プロバイダ拒否はUpstreamError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"errorCode":    "ValidationError",
				"errorMessage": "발신번호가 유효하지 않습니다",
			})
		}))
		defer server.Close()

		sender := gateway.NewSender(solapiTestConfig(server.URL), clk)
		err := sender.Send(ctx, "01012345678", "text")

		var upstream *gateway.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadRequest, upstream.Status)
		assert.Equal(t, "발신번호가 유효하지 않습니다", upstream.Message)
	})

	t.Run("本文が読めない拒否はステータス文言で返す", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		sender := gateway.NewSender(solapiTestConfig(server.URL), clk)
		err := sender.Send(ctx, "01012345678", "text")

		var upstream *gateway.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusInternalServerError, upstream.Status)
	})
}
