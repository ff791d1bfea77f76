package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/storage"
	"github.com/hiphil2000/IB.React/internal/util"
)

// GetCommonCodes handles GET /api/Core/GetCommonCodes?groupId=...
// (role User or Admin). An unknown group is an empty list, not an error.
func (ct *Controller) GetCommonCodes(c echo.Context) error {
	var groupID string
	if err := runtime.BindQueryParameter("form", true, true, "groupId", c.QueryParams(), &groupID); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid groupId: %v", err)
	}

	codes, err := ct.codes.GetCodes(c.Request().Context(), groupID)
	if err != nil {
		ct.log.Errorw("common code lookup failed", "groupId", groupID, "error", err)
		return c.JSON(http.StatusOK, models.CommonResponse{
			Success: false,
			Data:    nil,
			Message: "failed to load common codes",
		})
	}

	if codes == nil {
		codes = []models.Code{}
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: true,
		Data:    codes,
	})
}

// GetCommonCode handles GET /api/Core/GetCommonCode?groupId=...&codeId=...
func (ct *Controller) GetCommonCode(c echo.Context) error {
	var groupID, codeID string
	if err := runtime.BindQueryParameter("form", true, true, "groupId", c.QueryParams(), &groupID); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid groupId: %v", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "codeId", c.QueryParams(), &codeID); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid codeId: %v", err)
	}

	code, err := ct.codes.GetCode(c.Request().Context(), groupID, codeID)
	if err != nil && !errors.Is(err, storage.ErrCodeNotFound) {
		ct.log.Errorw("common code lookup failed", "groupId", groupID, "codeId", codeID, "error", err)
		return c.JSON(http.StatusOK, models.CommonResponse{
			Success: false,
			Data:    nil,
			Message: "failed to load common code",
		})
	}

	var data interface{}
	if code != nil {
		data = code
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: code != nil,
		Data:    data,
	})
}

// GetCodeGroups handles GET /api/Core/GetCodeGroups.
func (ct *Controller) GetCodeGroups(c echo.Context) error {
	groups, err := ct.codes.GetGroups(c.Request().Context())
	if err != nil {
		ct.log.Errorw("code group listing failed", "error", err)
		return c.JSON(http.StatusOK, models.CommonResponse{
			Success: false,
			Data:    nil,
			Message: "failed to load code groups",
		})
	}

	if groups == nil {
		groups = []models.CodeGroup{}
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: true,
		Data:    groups,
	})
}

// GetCodeGroup handles GET /api/Core/GetCodeGroup?groupId=...
func (ct *Controller) GetCodeGroup(c echo.Context) error {
	var groupID string
	if err := runtime.BindQueryParameter("form", true, true, "groupId", c.QueryParams(), &groupID); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid groupId: %v", err)
	}

	group, err := ct.codes.GetGroup(c.Request().Context(), groupID)
	if err != nil && !errors.Is(err, storage.ErrGroupNotFound) {
		ct.log.Errorw("code group lookup failed", "groupId", groupID, "error", err)
		return c.JSON(http.StatusOK, models.CommonResponse{
			Success: false,
			Data:    nil,
			Message: "failed to load code group",
		})
	}

	var data interface{}
	if group != nil {
		data = group
	}

	return c.JSON(http.StatusOK, models.CommonResponse{
		Success: group != nil,
		Data:    data,
	})
}
