package controllers

import (
	"net/http"

	"stakevault/catalog"
	"stakevault/utils"
)

// GET /v3/packages
// The catalog is static and in-code; entries snapshot their terms at creation
// so later catalog edits never touch existing stakes.
func PackageListHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    catalog.Packages(),
	})
}
