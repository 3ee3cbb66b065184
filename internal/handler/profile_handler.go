package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/repository"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

// ProfileHandler handles profile and privacy requests
type ProfileHandler struct {
	profiles *service.ProfileService
	search   *service.SearchService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *service.ProfileService, search *service.SearchService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, search: search}
}

type guardianDetailsRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
}

type groomDetailsRequest struct {
	Beard            bool   `json:"beard"`
	MosqueAttendance string `json:"mosque_attendance"`
}

type createProfileRequest struct {
	Gender        string                  `json:"gender" binding:"required"`
	Age           int                     `json:"age" binding:"required"`
	City          string                  `json:"city"`
	Country       string                  `json:"country"`
	Occupation    string                  `json:"occupation"`
	MaritalStatus string                  `json:"marital_status"`
	Religiosity   string                  `json:"religiosity"`
	Bio           string                  `json:"bio"`
	Guardian      *guardianDetailsRequest `json:"guardian"`
	Groom         *groomDetailsRequest    `json:"groom"`
}

type updateProfileRequest struct {
	Age           int                     `json:"age"`
	City          string                  `json:"city"`
	Country       string                  `json:"country"`
	Occupation    string                  `json:"occupation"`
	MaritalStatus string                  `json:"marital_status"`
	Religiosity   string                  `json:"religiosity"`
	Bio           string                  `json:"bio"`
	Guardian      *guardianDetailsRequest `json:"guardian"`
	Groom         *groomDetailsRequest    `json:"groom"`
}

type privacyRequest struct {
	Visibility              string `json:"visibility" binding:"required"`
	PhotoVisibility         string `json:"photo_visibility" binding:"required"`
	ShowAge                 bool   `json:"show_age"`
	ShowLocation            bool   `json:"show_location"`
	ShowOccupation          bool   `json:"show_occupation"`
	ShowLastSeen            bool   `json:"show_last_seen"`
	AllowContact            string `json:"allow_contact" binding:"required"`
	RequireGuardianApproval bool   `json:"require_guardian_approval"`
}

type approvalRequest struct {
	CounterpartID string `json:"counterpart_id" binding:"required"`
}

// Create handles POST /api/v1/profiles
// @Summary Complete registration by creating a profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body createProfileRequest true "Profile data"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p := &domain.Profile{
		AccountID:     middleware.GetUserID(c),
		Gender:        domain.Gender(req.Gender),
		Age:           req.Age,
		City:          req.City,
		Country:       req.Country,
		Occupation:    req.Occupation,
		MaritalStatus: req.MaritalStatus,
		Religiosity:   req.Religiosity,
		Bio:           req.Bio,
		Membership:    domain.TierBasic,
	}
	if req.Guardian != nil {
		p.Guardian = &domain.GuardianDetails{
			Name:         req.Guardian.Name,
			Phone:        req.Guardian.Phone,
			Relationship: req.Guardian.Relationship,
		}
	}
	if req.Groom != nil {
		p.Groom = &domain.GroomDetails{
			Beard:            req.Groom.Beard,
			MosqueAttendance: req.Groom.MosqueAttendance,
		}
	}

	created, err := h.profiles.Create(p)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to create profile", err)
		return
	}
	common.CreatedResponse(c, created)
}

// GetMe handles GET /api/v1/profiles/me
// @Summary Get the caller's own profile
// @Tags profiles
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p, err := h.profiles.Get(middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Profile not found", err)
		return
	}
	common.SuccessResponse(c, p, nil)
}

// Get handles GET /api/v1/profiles/:id
// @Summary View another profile through the visibility engine
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	subjectID := c.Param("id")
	callerID := middleware.GetProfileID(c)

	if subjectID == callerID {
		h.GetMe(c)
		return
	}

	view, err := h.search.View(callerID, subjectID)
	if err != nil {
		common.EngineErrorResponse(c, "Profile is not visible", err)
		return
	}
	common.SuccessResponse(c, view, nil)
}

// Update handles PUT /api/v1/profiles/:id
// @Summary Update a profile (owner or admin)
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body updateProfileRequest true "Fields to update"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id} [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated := &domain.Profile{
		Age:           req.Age,
		City:          req.City,
		Country:       req.Country,
		Occupation:    req.Occupation,
		MaritalStatus: req.MaritalStatus,
		Religiosity:   req.Religiosity,
		Bio:           req.Bio,
	}
	if req.Guardian != nil {
		updated.Guardian = &domain.GuardianDetails{
			Name:         req.Guardian.Name,
			Phone:        req.Guardian.Phone,
			Relationship: req.Guardian.Relationship,
		}
	}
	if req.Groom != nil {
		updated.Groom = &domain.GroomDetails{
			Beard:            req.Groom.Beard,
			MosqueAttendance: req.Groom.MosqueAttendance,
		}
	}

	p, err := h.profiles.Update(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c), updated)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to update profile", err)
		return
	}
	common.SuccessResponse(c, p, nil)
}

// UpdatePrivacy handles PUT /api/v1/profiles/:id/privacy
// @Summary Replace the profile's privacy configuration
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body privacyRequest true "Privacy configuration"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id}/privacy [put]
func (h *ProfileHandler) UpdatePrivacy(c *gin.Context) {
	var req privacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg := &domain.PrivacyConfiguration{
		Visibility:              domain.VisibilityTier(req.Visibility),
		PhotoVisibility:         domain.PhotoVisibility(req.PhotoVisibility),
		ShowAge:                 req.ShowAge,
		ShowLocation:            req.ShowLocation,
		ShowOccupation:          req.ShowOccupation,
		ShowLastSeen:            req.ShowLastSeen,
		AllowContact:            domain.ContactPolicy(req.AllowContact),
		RequireGuardianApproval: req.RequireGuardianApproval,
	}

	if err := h.profiles.UpdatePrivacy(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c), cfg); err != nil {
		common.EngineErrorResponse(c, "Failed to update privacy settings", err)
		return
	}
	common.SuccessResponse(c, cfg, nil)
}

// Delete handles DELETE /api/v1/profiles/:id
// @Summary Remove a profile (soft delete)
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profiles.Remove(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c)); err != nil {
		common.EngineErrorResponse(c, "Failed to remove profile", err)
		return
	}
	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

// GrantApproval handles POST /api/v1/profiles/:id/approvals
// @Summary Record guardian consent for a counterpart
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Guarded profile ID"
// @Param body body approvalRequest true "Counterpart to admit"
// @Success 201 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id}/approvals [post]
func (h *ProfileHandler) GrantApproval(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.profiles.GrantApproval(
		c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c),
		req.CounterpartID, middleware.GetUserID(c),
	)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to grant approval", err)
		return
	}
	common.CreatedResponse(c, gin.H{"counterpart_id": req.CounterpartID})
}

// RevokeApproval handles DELETE /api/v1/profiles/:id/approvals/:counterpartID
// @Summary Withdraw guardian consent for a counterpart
// @Tags profiles
// @Produce json
// @Param id path string true "Guarded profile ID"
// @Param counterpartID path string true "Counterpart profile ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles/{id}/approvals/{counterpartID} [delete]
func (h *ProfileHandler) RevokeApproval(c *gin.Context) {
	err := h.profiles.RevokeApproval(
		c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c),
		c.Param("counterpartID"),
	)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to revoke approval", err)
		return
	}
	common.SuccessResponse(c, gin.H{"revoked": true}, nil)
}

// Search handles GET /api/v1/profiles
// @Summary Search opposite-gender candidates through the visibility engine
// @Tags profiles
// @Produce json
// @Param age_min query int false "Minimum age"
// @Param age_max query int false "Maximum age"
// @Param city query string false "City filter"
// @Param country query string false "Country filter"
// @Param marital_status query string false "Marital status filter"
// @Param religiosity query string false "Religiosity filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /profiles [get]
func (h *ProfileHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	ageMin, _ := strconv.Atoi(c.DefaultQuery("age_min", "0"))
	ageMax, _ := strconv.Atoi(c.DefaultQuery("age_max", "0"))

	f := repository.CandidateFilters{
		AgeMin:        ageMin,
		AgeMax:        ageMax,
		City:          c.Query("city"),
		Country:       c.Query("country"),
		MaritalStatus: c.Query("marital_status"),
		Religiosity:   c.Query("religiosity"),
		Page:          page,
		Limit:         limit,
	}

	views, total, err := h.search.Search(middleware.GetProfileID(c), f)
	if err != nil {
		common.EngineErrorResponse(c, "Search failed", err)
		return
	}
	common.SuccessResponse(c, views, &common.Meta{Page: page, Limit: limit, Total: total})
}
