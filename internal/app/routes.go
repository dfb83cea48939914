package app

import (
	"github.com/gorilla/mux"
	"github.com/klokku/spendpace/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Insights
	r.HandleFunc("/api/insights", deps.InsightsHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/insights/breakdown", deps.InsightsHandler.GetBreakdown).Methods("GET")
	r.HandleFunc("/api/insights/navigation", deps.InsightsHandler.GetNavigation).Methods("GET")

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.Register).Methods("POST")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/budget/{id}/pacing", deps.BudgetHandler.GetPacing).Methods("GET")
	r.HandleFunc("/api/budget/{id}/history", deps.BudgetHandler.GetHistory).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.GetTransactions).Methods("GET")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.DeleteTransaction).Methods("DELETE")
	r.HandleFunc("/api/category", deps.TransactionHandler.GetCategories).Methods("GET")
	r.HandleFunc("/api/category", deps.TransactionHandler.CreateCategory).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current/settings", deps.UserHandler.UpdateSettings).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}
