package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/http/response"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/apierr"
	"github.com/itigeeks/itigeeks-backend/internal/platform/ctxutil"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

// persistenceMessage is shown when a commit could not be written. The
// pending batch is kept, so the same commit can be sent again.
const persistenceMessage = "could not save problems; your import is still pending, please retry"

// errorMappings is the HTTP surface of the service and import errors.
var errorMappings = []apierr.Mapping{
	{Target: importerr.ErrUnsupportedFormat, Status: http.StatusUnsupportedMediaType, Code: "unsupported_format"},
	{Target: importerr.ErrFileTooLarge, Status: http.StatusRequestEntityTooLarge, Code: "file_too_large"},
	{Target: importerr.ErrRead, Status: http.StatusBadRequest, Code: "read_failed"},
	{Target: importerr.ErrParse, Status: http.StatusUnprocessableEntity, Code: "parse_failed"},
	{Target: importerr.ErrNoMatches, Status: http.StatusUnprocessableEntity, Code: "no_matches"},
	{Target: importerr.ErrImportInProgress, Status: http.StatusConflict, Code: "import_in_progress"},
	{Target: importerr.ErrSuperseded, Status: http.StatusConflict, Code: "superseded"},
	{Target: importerr.ErrBatchNotFound, Status: http.StatusNotFound, Code: "batch_not_found"},
	{Target: importerr.ErrEmptySelection, Status: http.StatusBadRequest, Code: "empty_selection"},
	{
		Target:  importerr.ErrPersistence,
		Status:  http.StatusServiceUnavailable,
		Code:    "persistence_failed",
		Message: persistenceMessage,
	},
	{Target: importerr.ErrMetadataLoad, Status: http.StatusServiceUnavailable, Code: "catalog_unavailable"},
	{Target: services.ErrProblemNotFound, Status: http.StatusNotFound, Code: "problem_not_found"},
	{Target: services.ErrInvalidStatus, Status: http.StatusBadRequest, Code: "invalid_status"},
	{Target: services.ErrStatsDisabled, Status: http.StatusServiceUnavailable, Code: "stats_disabled"},
	{Target: services.ErrNoRequestData, Status: http.StatusUnauthorized, Code: "unauthorized"},
}

func respondErr(c *gin.Context, err error) {
	ae := response.RespondAPIError(c, err, errorMappings...)
	observability.Current().IncAPIError(ae.Code)
}

// currentUser aborts with 401 when the request carries no verified user.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}
