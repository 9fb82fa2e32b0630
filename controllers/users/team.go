package users

import (
	"net/http"
	"strconv"

	"stakevault/database"
	"stakevault/leaderboard"
	"stakevault/models"
	"stakevault/utils"

	"github.com/gorilla/mux"
)

type teamLevelSummary struct {
	Count       int     `json:"count"`
	Active      int     `json:"active"`
	Inactive    int     `json:"inactive"`
	TotalStaked float64 `json:"total_staked"`
}

func summarizeLevel(members []models.User) teamLevelSummary {
	s := teamLevelSummary{Count: len(members)}
	for _, m := range members {
		if m.TotalStaked > 0 {
			s.Active++
		} else {
			s.Inactive++
		}
		s.TotalStaked += m.TotalStaked
	}
	s.TotalStaked = utils.Round2(s.TotalStaked)
	return s
}

// GET /v3/users/team-invited and /v3/users/team-invited/{level}
func TeamInvitedHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	byParents := func(parentIDs []uint) ([]models.User, error) {
		var members []models.User
		if len(parentIDs) == 0 {
			return members, nil
		}
		err := db.Where("reff_by IN ?", parentIDs).Find(&members).Error
		return members, err
	}

	var level1 []models.User
	if err := db.Where("reff_by = ?", uid).Find(&level1).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	ids := func(members []models.User) []uint {
		out := make([]uint, 0, len(members))
		for _, m := range members {
			out = append(out, m.ID)
		}
		return out
	}
	level2, err := byParents(ids(level1))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	level3, err := byParents(ids(level2))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	levels := map[int][]models.User{1: level1, 2: level2, 3: level3}

	if levelStr, found := mux.Vars(r)["level"]; found {
		level, err := strconv.Atoi(levelStr)
		if err != nil || level < 1 || level > 3 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid level"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Successfully",
			Data:    map[string]interface{}{levelStr: summarizeLevel(levels[level])},
		})
		return
	}

	resp := make(map[string]interface{}, 3)
	for level, members := range levels {
		resp[strconv.Itoa(level)] = summarizeLevel(members)
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}

// GET /v3/users/leaderboard
// Weekly invite leaderboard plus the caller's own standing. Query params
// limit, min_stake and min_package_id tune the activation thresholds.
func LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	minStake, _ := strconv.ParseFloat(r.URL.Query().Get("min_stake"), 64)
	minPackage, _ := strconv.ParseUint(r.URL.Query().Get("min_package_id"), 10, 64)

	board, err := leaderboard.NewService(database.DB).InviteLeaderboard(uid, limit, minStake, uint(minPackage))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: board})
}
