package users

import (
	"errors"
	"net/http"

	"stakevault/database"
	"stakevault/models"
	"stakevault/utils"

	"gorm.io/gorm"
)

// GET /v3/users/info
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var onStake int64
	db.Model(&models.StakingEntry{}).
		Where("user_id = ? AND status IN ?", uid, []string{models.EntryStatusActive, models.EntryStatusUnstaking}).
		Count(&onStake)

	var activeVouchers int64
	db.Model(&models.Voucher{}).
		Where("user_id = ? AND status = ?", uid, models.VoucherStatusActive).
		Count(&activeVouchers)

	// KYC is an optional side record; absent rows read as "not submitted".
	var kycProfile models.KYCProfile
	var kyc interface{}
	if err := db.Where("user_id = ?", uid).First(&kycProfile).Error; err == nil {
		if submission, submitted := kycProfile.Submission(); submitted {
			kyc = submission
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"name":         user.Name,
				"number":       user.Number,
				"reff_code":    user.ReffCode,
				"balance":      user.Balance,
				"total_staked": user.TotalStaked,
				"total_earned": user.TotalEarned,
				"status":       user.Status,
			},
			"staking": map[string]interface{}{
				"on_stake_entries": onStake,
				"active_vouchers":  activeVouchers,
			},
			"kyc": kyc,
		},
	})
}
