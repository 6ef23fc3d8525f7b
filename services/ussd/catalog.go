package ussd

import (
	// Go Internal Packages
	"fmt"
	"strings"
)

// Static product catalog. Menu positions are 1-based and stable: the
// dispatcher maps the entered digit straight into these slices.

var networks = []string{"MTN", "Telecel", "AirtelTigo"}

var tvProviders = []string{"DStv", "GOtv", "StarTimes"}

var utilityProviders = []string{"ECG Prepaid", "Ghana Water"}

type voucherProduct struct {
	Name  string
	Price float64
}

var voucherTypes = []voucherProduct{
	{Name: "WASSCE Results Checker", Price: 17.50},
	{Name: "BECE Results Checker", Price: 17.50},
	{Name: "School Placement Checker", Price: 22.00},
}

type BundleOption struct {
	Name  string
	Price float64
}

type BundleGroup struct {
	Name    string
	Options []BundleOption
}

// bundleCatalog is keyed by network name. Groups are the category menu
// at depth 3; options are browsed in pages of bundlePageSize.
var bundleCatalog = map[string][]BundleGroup{
	"MTN": {
		{Name: "Daily Offers", Options: []BundleOption{
			{Name: "50MB @ 0.50", Price: 0.50},
			{Name: "150MB @ 1.00", Price: 1.00},
			{Name: "420MB @ 3.00", Price: 3.00},
			{Name: "1GB @ 5.00", Price: 5.00},
			{Name: "1.5GB @ 6.00", Price: 6.00},
			{Name: "2.5GB @ 10.00", Price: 10.00},
			{Name: "4GB @ 15.00", Price: 15.00},
		}},
		{Name: "Weekly Offers", Options: []BundleOption{
			{Name: "500MB @ 5.00", Price: 5.00},
			{Name: "1.2GB @ 10.00", Price: 10.00},
			{Name: "3GB @ 20.00", Price: 20.00},
			{Name: "6GB @ 35.00", Price: 35.00},
		}},
		{Name: "Monthly Offers", Options: []BundleOption{
			{Name: "1GB @ 10.00", Price: 10.00},
			{Name: "5GB @ 40.00", Price: 40.00},
			{Name: "10GB @ 70.00", Price: 70.00},
			{Name: "20GB @ 120.00", Price: 120.00},
		}},
	},
	"Telecel": {
		{Name: "Daily Offers", Options: []BundleOption{
			{Name: "80MB @ 0.50", Price: 0.50},
			{Name: "350MB @ 2.00", Price: 2.00},
			{Name: "1GB @ 4.50", Price: 4.50},
			{Name: "2GB @ 8.00", Price: 8.00},
		}},
		{Name: "Monthly Offers", Options: []BundleOption{
			{Name: "2GB @ 15.00", Price: 15.00},
			{Name: "6GB @ 40.00", Price: 40.00},
			{Name: "15GB @ 90.00", Price: 90.00},
		}},
	},
	"AirtelTigo": {
		{Name: "Daily Offers", Options: []BundleOption{
			{Name: "60MB @ 0.50", Price: 0.50},
			{Name: "300MB @ 2.00", Price: 2.00},
			{Name: "1GB @ 4.00", Price: 4.00},
		}},
		{Name: "Monthly Offers", Options: []BundleOption{
			{Name: "3GB @ 18.00", Price: 18.00},
			{Name: "8GB @ 50.00", Price: 50.00},
		}},
	},
}

const bundlePageSize = 5

// Pagination control tokens, matched before any numeric parsing.
const (
	tokenNextPage       = "0"
	tokenPrevPage       = "00"
	tokenBackToCategory = "99"
)

const mainMenu = "Welcome to E-Wale\n" +
	"1. Airtime Topup\n" +
	"2. Data Bundle\n" +
	"3. Pay TV Bills\n" +
	"4. Utility Service\n" +
	"5. Results Checker\n" +
	"6. My Earnings\n" +
	"7. Contact Us"

const contactMessage = "E-Wale Support\nCall: 0302000000\nWhatsApp: 0550000000\nEmail: support@ewale.example.com"

// numberedMenu renders items as "1. a\n2. b ...".
func numberedMenu(title string, items []string) string {
	var b strings.Builder
	b.WriteString(title)
	for i, item := range items {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, item))
	}
	return b.String()
}

// menuChoice resolves a 1-based digit against a menu of n entries.
func menuChoice(input string, n int) (int, bool) {
	idx := 0
	for _, r := range strings.TrimSpace(input) {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < 1 || idx > n {
		return 0, false
	}
	return idx - 1, true
}

func voucherNames() []string {
	names := make([]string, len(voucherTypes))
	for i, v := range voucherTypes {
		names[i] = fmt.Sprintf("%s - GHS %.2f", v.Name, v.Price)
	}
	return names
}

func bundleGroupNames(network string) []string {
	groups := bundleCatalog[network]
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}
