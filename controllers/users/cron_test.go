package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The authorization check must refuse the run before any sweep work starts:
// these tests run with no database configured and must never panic.
func TestCronHandlersRefuseWithoutKey(t *testing.T) {
	t.Setenv("CRON_KEY", "s3cret")

	handlers := map[string]http.HandlerFunc{
		"daily-roi":      CronDailyRoiHandler,
		"team-earnings":  CronTeamEarningsHandler,
		"voucher-expiry": CronVoucherExpiryHandler,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v3/cron/"+name, nil)
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})

		t.Run(name+" wrong key", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v3/cron/"+name, nil)
			req.Header.Set("X-CRON-KEY", "guess")
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCronAuthRefusesWhenKeyUnset(t *testing.T) {
	t.Setenv("CRON_KEY", "")

	// An unset secret must never mean "open": an empty header may not match.
	req := httptest.NewRequest(http.MethodPost, "/v3/cron/daily-roi", nil)
	rec := httptest.NewRecorder()
	ok := cronAuthorized(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
