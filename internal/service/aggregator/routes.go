package aggregator

import "strings"

type Host int

const (
	// HostOrigin is the document type's own base URL.
	HostOrigin Host = iota
	HostWarehouse
	HostCatalog
)

// Part names a slot of the composite view.
type Part string

const (
	PartDocument     Part = "document"
	PartDetails      Part = "details"
	PartOrganization Part = "companyData"
	PartCounterparty Part = "providerData"
	PartReference    Part = "materials"
)

// Fetch describes one upstream JSON call. Path may contain {id}, replaced by
// the document ID, and {key}, replaced by the positive integer found under Key
// in the primary document. A fetch whose Key is missing or not positive is
// skipped.
type Fetch struct {
	Part Part
	Host Host
	Path string
	Key  string
}

type Route struct {
	Primary   Fetch
	Secondary []Fetch
}

var (
	purchaseRoute = Route{
		Primary: Fetch{Part: PartDocument, Host: HostOrigin, Path: "/api/Ocandreq/{id}"},
		Secondary: []Fetch{
			{Part: PartDetails, Host: HostWarehouse, Path: "/api/Detailsreqoc/{id}"},
			{Part: PartOrganization, Host: HostCatalog, Path: "/api/Root/{key}", Key: "idCompany"},
			{Part: PartCounterparty, Host: HostCatalog, Path: "/api/Providers/{key}", Key: "idProvider"},
			{Part: PartReference, Host: HostWarehouse, Path: "/api/Material/2fields?idCompany={key}", Key: "idCompany"},
		},
	}

	treasuryRoute = Route{
		Primary: Fetch{Part: PartDocument, Host: HostOrigin, Path: "/api/Incomeandexpense/{id}"},
		Secondary: []Fetch{
			{Part: PartOrganization, Host: HostCatalog, Path: "/api/Root/{key}", Key: "idCompany"},
			{Part: PartCounterparty, Host: HostCatalog, Path: "/api/Providers/{key}", Key: "idProvider"},
		},
	}
)

// DefaultRoutes maps document-type codes to the upstream calls that build
// their view.
func DefaultRoutes() map[string]Route {
	return map[string]Route{
		"OC":      purchaseRoute,
		"REQUIS":  purchaseRoute,
		"INCOME":  treasuryRoute,
		"EXPENSE": treasuryRoute,
	}
}

type routingTable map[string]Route

func newRoutingTable(routes map[string]Route) routingTable {
	table := make(routingTable, len(routes))
	for code, route := range routes {
		table[strings.ToUpper(code)] = route
	}
	return table
}

func (t routingTable) lookup(code string) (Route, bool) {
	route, ok := t[strings.ToUpper(strings.TrimSpace(code))]
	return route, ok
}
