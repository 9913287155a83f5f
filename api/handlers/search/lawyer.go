package search

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/models"
)

var errInvalidMaxRate = errors.New("max_rate must be a finite number, zero or more")

// LawyerSearcher is the part of the marketplace the directory search needs
type LawyerSearcher interface {
	SearchLawyers(ctx context.Context, filter databases.LawyerFilter) ([]models.Lawyer, error)
}

// Lawyer ...
type Lawyer struct {
	Market LawyerSearcher
}

// LawyerSearchHandler filters the directory by q, specialty, verified and max_rate
func (l Lawyer) LawyerSearchHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLawyerFilter(r)
	if err != nil {
		config.ErrorStatus("invalid search parameters", http.StatusBadRequest, w, err)
		return
	}

	zap.S().Debugf("q: %v, specialty: %v, verified: %v, max_rate: %v", filter.Query, filter.Specialty, filter.VerifiedOnly, filter.MaxRate)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.Market.SearchLawyers(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to search lawyers", http.StatusInternalServerError, w, err)
		return
	}
	// the frontend expects a list, never null
	if len(dbResp) == 0 {
		dbResp = []models.Lawyer{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func parseLawyerFilter(r *http.Request) (databases.LawyerFilter, error) {
	q := r.URL.Query()
	filter := databases.LawyerFilter{
		Query:     strings.TrimSpace(q.Get("q")),
		Specialty: strings.TrimSpace(q.Get("specialty")),
	}
	if v := q.Get("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return filter, err
		}
		filter.VerifiedOnly = verified
	}
	if v := q.Get("max_rate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, err
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
			return filter, errInvalidMaxRate
		}
		filter.MaxRate = rate
	}
	return filter, nil
}
