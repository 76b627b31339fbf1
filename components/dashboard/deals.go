package dashboard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DealStatus is the pipeline state of a deal.
type DealStatus string

const (
	DealWon        DealStatus = "won"
	DealLost       DealStatus = "lost"
	DealInProgress DealStatus = "in-progress"
	DealPending    DealStatus = "pending"
)

// DealStatuses lists every status in display order.
func DealStatuses() []DealStatus {
	return []DealStatus{DealWon, DealInProgress, DealPending, DealLost}
}

func (s DealStatus) String() string { return string(s) }

// Deal is one row of the recent deals widget. Deals are fixture values and
// never change after construction.
type Deal struct {
	ID          string     `json:"id"`
	Name        string     `json:"deal_name"`
	Company     string     `json:"company"`
	Value       float64    `json:"value"`
	Status      DealStatus `json:"status"`
	CloseDate   time.Time  `json:"close_date"`
	Probability int        `json:"probability"`
}

// DealsRepository lists the deals shown by dashboard widgets.
type DealsRepository interface {
	ListDeals(ctx context.Context) ([]Deal, error)
}

// StaticDealsRepository serves a fixed slice.
type StaticDealsRepository struct {
	deals []Deal
}

// NewStaticDealsRepository copies deals into a repository.
func NewStaticDealsRepository(deals []Deal) *StaticDealsRepository {
	return &StaticDealsRepository{deals: append([]Deal(nil), deals...)}
}

// ListDeals returns a copy of the fixture deals.
func (r *StaticDealsRepository) ListDeals(context.Context) ([]Deal, error) {
	return append([]Deal(nil), r.deals...), nil
}

// SampleDeals returns the fixture pipeline.
func SampleDeals() []Deal {
	return []Deal{
		{ID: "1", Name: "Enterprise License Q1", Company: "TechCorp Inc", Value: 125000, Status: DealWon, CloseDate: day(2025, time.September, 15), Probability: 100},
		{ID: "2", Name: "Annual Subscription", Company: "StartupXYZ", Value: 45000, Status: DealInProgress, CloseDate: day(2025, time.October, 20), Probability: 75},
		{ID: "3", Name: "Cloud Migration", Company: "Global Solutions", Value: 89000, Status: DealPending, CloseDate: day(2025, time.November, 5), Probability: 50},
		{ID: "4", Name: "Support Package", Company: "MediaCo Ltd", Value: 32000, Status: DealWon, CloseDate: day(2025, time.September, 28), Probability: 100},
		{ID: "5", Name: "Consulting Services", Company: "Finance Group", Value: 67000, Status: DealLost, CloseDate: day(2025, time.September, 10), Probability: 0},
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole US dollars with digit grouping, e.g. $125,000.
func FormatCurrency(value float64) string {
	amount := int64(math.Round(value))
	if amount < 0 {
		return usPrinter.Sprintf("-$%d", -amount)
	}
	return usPrinter.Sprintf("$%d", amount)
}

// FormatDate renders dates like "Sep 15, 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatPercent renders a whole percentage.
func FormatPercent(value int) string {
	return fmt.Sprintf("%d%%", value)
}

// Badge is the display style of a status.
type Badge struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

var statusBadges = map[DealStatus]Badge{
	DealWon:        {Label: "Won", Variant: "default"},
	DealLost:       {Label: "Lost", Variant: "destructive"},
	DealInProgress: {Label: "In Progress", Variant: "secondary"},
	DealPending:    {Label: "Pending", Variant: "outline"},
}

// StatusBadge maps a status to its badge. Unknown statuses render as an
// outline badge labeled from the status text.
func StatusBadge(status DealStatus) Badge {
	if badge, ok := statusBadges[status]; ok {
		return badge
	}
	label := strings.ReplaceAll(string(status), "-", " ")
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return Badge{Label: label, Variant: "outline"}
}

// ValidateStatusStyles reports statuses missing a badge style.
func ValidateStatusStyles() error {
	var missing []string
	for _, status := range DealStatuses() {
		if _, ok := statusBadges[status]; !ok {
			missing = append(missing, string(status))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dashboard: statuses without badge style: %s", strings.Join(missing, ", "))
	}
	return nil
}
