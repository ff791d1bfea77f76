package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	require.NotNil(t, doc)

	// Every mounted route is described.
	for _, path := range []string{
		"/api/Auth/Login",
		"/api/Auth/Logout",
		"/api/Auth/CurrentUser",
		"/api/Auth/ValidateToken",
		"/api/Auth/Users",
		"/api/Core/GetCommonCodes",
		"/api/Core/GetCommonCode",
		"/api/Core/GetCodeGroups",
		"/api/Core/GetCodeGroup",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}
