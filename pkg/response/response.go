package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key the auth middleware stores the decoded
// token identity under.
const IdentityKey = "identity"

// GetIdentity retrieves the authenticated identity from the context.
func GetIdentity(c *gin.Context) (*token.Identity, error) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	ident, ok := v.(*token.Identity)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	return ident, nil
}

// Error writes a standardized error response.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			log.Printf("[Internal Error]: %v", err)
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
