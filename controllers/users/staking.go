package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"stakevault/database"
	"stakevault/models"
	"stakevault/staking"
	"stakevault/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CreateStakeRequest struct {
	Amount float64 `json:"amount"`
}

// POST /v3/users/staking
func CreateStakeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CreateStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	entry, err := staking.NewLedger(database.DB).CreateStake(uid, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, staking.ErrAmountNotPositive),
			errors.Is(err, staking.ErrAmountNotWhole),
			errors.Is(err, staking.ErrNoMatchingPackage):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		case errors.Is(err, staking.ErrInsufficientBalance):
			utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.APIResponse{Success: false, Message: "Insufficient balance"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create stake"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    entry,
	})
}

// GET /v3/users/staking
// Optional ?status= filter plus page/limit pagination.
func ListStakesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	db := database.DB
	query := db.Model(&models.StakingEntry{}).Where("user_id = ?", uid)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var entries []models.StakingEntry
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&entries).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	totalPages := int((totalRows + int64(limit) - 1) / int64(limit))
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": entries,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /v3/users/staking/active
func GetActiveStakesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var entries []models.StakingEntry
	err := database.DB.
		Where("user_id = ? AND status IN ?", uid, []string{models.EntryStatusActive, models.EntryStatusUnstaking}).
		Order("id DESC").Find(&entries).Error
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	totalPrincipal := 0.0
	totalEarned := 0.0
	for _, e := range entries {
		totalPrincipal += e.Amount
		totalEarned += e.TotalEarned
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"entries":         entries,
			"total_principal": utils.Round2(totalPrincipal),
			"total_earned":    utils.Round2(totalEarned),
		},
	})
}

// GET /v3/users/staking/{id}
func GetStakeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	var entry models.StakingEntry
	if err := database.DB.Where("id = ? AND user_id = ?", id, uid).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Staking entry not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: entry})
}

// POST /v3/users/staking/{id}/unstake
func UnstakeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	entry, err := staking.NewLedger(database.DB).RequestUnstake(uid, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, staking.ErrEntryNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Staking entry not found"})
		case errors.Is(err, staking.ErrInvalidTransition):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Entry can no longer be unstaked"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to unstake"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Unstake requested, principal returns after the next distribution",
		Data:    entry,
	})
}
