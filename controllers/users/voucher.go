package users

import (
	"errors"
	"net/http"
	"strings"

	"stakevault/database"
	"stakevault/middleware"
	"stakevault/models"
	"stakevault/promo"
	"stakevault/utils"
)

// GET /v3/users/vouchers
func ListVouchersHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	query := database.DB.Where("user_id = ?", uid)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var vouchers []models.Voucher
	if err := query.Order("id DESC").Find(&vouchers).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: vouchers})
}

type RedeemVoucherRequest struct {
	Code string `json:"code" validate:"required,vouchercode"`
}

// POST /v3/users/vouchers/redeem
func RedeemVoucherHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req RedeemVoucherRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	result, err := promo.NewEngine(database.DB).Redeem(uid, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		switch {
		case errors.Is(err, promo.ErrVoucherNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Voucher not found"})
		case errors.Is(err, promo.ErrVoucherNotActive):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Voucher is no longer redeemable"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to redeem voucher"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: result})
}
