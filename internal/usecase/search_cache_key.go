package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"jobboard/internal/domain/listing"
)

const (
	listingSearchPrefix  = "listings:search:"
	listingSearchPattern = listingSearchPrefix + "*"

	// listingSearchGenKey sits outside listingSearchPattern so pattern
	// deletes never reset it.
	listingSearchGenKey = "listings:search_gen"
)

type listingSearchCacheKeyInput struct {
	Generation     int64  `json:"gen"`
	Text           string `json:"text"`
	Location       string `json:"location"`
	WorkplaceType  string `json:"workplace_type"`
	EmploymentType string `json:"employment_type"`
	Limit          int    `json:"limit"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// ListingSearchCacheKey hashes the normalized filter and the search
// generation. Filters that differ only in case or spacing share one entry;
// bumping the generation orphans every earlier entry.
func ListingSearchCacheKey(f listing.SearchFilter, gen int64) string {
	in := listingSearchCacheKeyInput{
		Generation:     gen,
		Text:           normalizeSearchValue(f.Text),
		Location:       normalizeSearchValue(f.Location),
		WorkplaceType:  string(f.WorkplaceType),
		EmploymentType: string(f.EmploymentType),
		Limit:          f.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return listingSearchPrefix + hex.EncodeToString(sum[:])
}
