package users

import (
	"net/http"
	"os"
	"time"

	"stakevault/database"
	"stakevault/promo"
	"stakevault/staking"
	"stakevault/utils"
)

// Scheduled-trigger endpoints. All three are guarded by the X-CRON-KEY
// header and a per-period Redis lock so overlapping triggers from several
// schedulers run at most one sweep. The sweeps themselves are idempotent,
// the lock only saves wasted work.

func cronAuthorized(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("X-CRON-KEY")
	if key == "" || key != os.Getenv("CRON_KEY") {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return false
	}
	return true
}

// POST /v3/cron/daily-roi
func CronDailyRoiHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(w, r) {
		return
	}

	period := utils.PeriodDate(time.Now())
	if !utils.AcquireSweepLock("daily-roi", period, 10*time.Minute) {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Sweep already running"})
		return
	}
	defer utils.ReleaseSweepLock("daily-roi", period)

	summary := staking.NewDistributor(database.DB).DistributeDaily()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: summary})
}

// POST /v3/cron/team-earnings
func CronTeamEarningsHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(w, r) {
		return
	}

	period := utils.PeriodDate(time.Now())
	if !utils.AcquireSweepLock("team-earnings", period, 10*time.Minute) {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Sweep already running"})
		return
	}
	defer utils.ReleaseSweepLock("team-earnings", period)

	summary := staking.NewTeamDistributor(database.DB).Distribute()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: summary})
}

// POST /v3/cron/voucher-expiry
func CronVoucherExpiryHandler(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(w, r) {
		return
	}

	reconciler := staking.NewReconciler(database.DB).ReconcileVoucherBoundaries()
	lapsed, err := promo.NewEngine(database.DB).ExpireLapsed()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Voucher expiry failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"entries":          reconciler,
			"vouchers_expired": lapsed,
		},
	})
}
