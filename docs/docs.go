// Package docs LexMatch API.
//
// Documentation of the LexMatch intake and marketplace API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://lexmatch-api.herokuapp.com
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/lexmatch-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/session session createSession
// Starts a session for the seeded CLIENT or LAWYER persona.
// responses:
//   201: sessionResponse
//   400: errorResponse

// A signed session token and the persona it belongs to.
// swagger:response sessionResponse
type sessionResponseWrapper struct {
	// in:body
	Body models.SessionResponse
}

// swagger:route POST /api/v1/intake/analyze intake analyzeIntake
// Turns a free-text description into a case brief. Falls back to a placeholder brief when the AI is unavailable.
// responses:
//   200: analyzeResponse
//   400: errorResponse

// The brief, and whether the fallback was used.
// swagger:response analyzeResponse
type analyzeResponseWrapper struct {
	// in:body
	Body models.AnalyzeResponse
}

// swagger:route POST /api/v1/intake/tasks intake createAnalysisTask
// Starts an analysis in the background.
// responses:
//   202: analysisTaskResponse

// swagger:route GET /api/v1/intake/tasks/{task_id} intake analysisTask
// Gets an analysis task by ID.
// responses:
//   200: analysisTaskResponse
//   404: errorResponse

// An analysis task snapshot.
// swagger:response analysisTaskResponse
type analysisTaskResponseWrapper struct {
	// in:body
	Body models.AnalysisTask
}

// swagger:route GET /api/v1/cases/{case_id} case caseByID
// Gets a single case by ID.
// responses:
//   200: caseResponse
//   403: errorResponse
//   404: errorResponse

// swagger:route POST /api/v1/cases/{case_id}/bids/{bid_id}/accept case acceptBid
// Accepts a bid and funds escrow. Without confirm the escrow prompt is returned with 428.
// responses:
//   200: caseResponse
//   409: errorResponse
//   428: confirmationResponse

// Shows a single case
// swagger:response caseResponse
type caseResponseWrapper struct {
	// in:body
	Body models.Case
}

// The escrow prompt the founder must confirm.
// swagger:response confirmationResponse
type confirmationResponseWrapper struct {
	// in:body
	Body models.ConfirmationResponse
}

// swagger:route GET /api/v1/lawyers lawyer lawyers
// Lists the lawyer directory.
// responses:
//   200: lawyersResponse

// swagger:route GET /api/v1/lawyers/search lawyer searchLawyers
// Filters the lawyer directory by q, specialty, verified and max_rate.
// responses:
//   200: lawyersResponse
//   400: errorResponse

// Lawyer directory profiles.
// swagger:response lawyersResponse
type lawyersResponseWrapper struct {
	// in:body
	Body []models.Lawyer
}

// Error message and cause.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
