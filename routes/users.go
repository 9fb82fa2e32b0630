package routes

import (
	"net/http"

	"stakevault/controllers/users"
	"stakevault/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every authenticated user route on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// 120 reads and 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(userLimiter.Middleware(h))
	}

	api.Handle("/users/info", authed(users.InfoHandler)).Methods(http.MethodGet)

	// Staking ledger
	api.Handle("/users/staking", authed(users.CreateStakeHandler)).Methods(http.MethodPost)
	api.Handle("/users/staking", authed(users.ListStakesHandler)).Methods(http.MethodGet)
	api.Handle("/users/staking/active", authed(users.GetActiveStakesHandler)).Methods(http.MethodGet)
	api.Handle("/users/staking/{id:[0-9]+}", authed(users.GetStakeHandler)).Methods(http.MethodGet)
	api.Handle("/users/staking/{id:[0-9]+}/unstake", authed(users.UnstakeHandler)).Methods(http.MethodPost)

	// Vouchers
	api.Handle("/users/vouchers", authed(users.ListVouchersHandler)).Methods(http.MethodGet)
	api.Handle("/users/vouchers/redeem", authed(users.RedeemVoucherHandler)).Methods(http.MethodPost)

	// Transaction journal
	api.Handle("/users/transaction", authed(users.GetTransactionHistory)).Methods(http.MethodGet)
	api.Handle("/users/transaction/{type}", authed(users.GetTransactionHistory)).Methods(http.MethodGet)

	// Team and leaderboard
	api.Handle("/users/team-invited", authed(users.TeamInvitedHandler)).Methods(http.MethodGet)
	api.Handle("/users/team-invited/{level:[0-9]+}", authed(users.TeamInvitedHandler)).Methods(http.MethodGet)
	api.Handle("/users/leaderboard", authed(users.LeaderboardHandler)).Methods(http.MethodGet)
}
