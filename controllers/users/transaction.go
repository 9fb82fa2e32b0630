package users

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stakevault/database"
	"stakevault/models"
	"stakevault/utils"
)

// GET /v3/users/transaction and /v3/users/transaction/{type}
func GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	txType := strings.TrimSpace(r.URL.Query().Get("type"))
	if txType == "" {
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) >= 5 {
			txType = strings.TrimSpace(parts[4])
		}
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Transaction{}).Where("user_id = ?", uid)
	if txType != "" && txType != "null" {
		query = query.Where("transaction_type = ?", txType)
	}
	if search != "" {
		query = query.Where("order_id LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&transactions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	type transactionDTO struct {
		ID              uint    `json:"id"`
		Amount          float64 `json:"amount"`
		OrderID         string  `json:"order_id"`
		TransactionFlow string  `json:"transaction_flow"`
		TransactionType string  `json:"transaction_type"`
		Message         *string `json:"message,omitempty"`
		Status          string  `json:"status"`
		CreatedAt       string  `json:"created_at"`
	}
	items := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, transactionDTO{
			ID:              t.ID,
			Amount:          t.Amount,
			OrderID:         t.OrderID,
			TransactionFlow: t.TransactionFlow,
			TransactionType: t.TransactionType,
			Message:         t.Message,
			Status:          t.Status,
			CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}
