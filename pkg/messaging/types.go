package messaging

type ChangeTopic string

const (
	// DashboardEvents carries session, filter and selection tracking.
	DashboardEvents ChangeTopic = "dashboard"
	// CatalogChanged tells running instances to drop their cached catalog.
	CatalogChanged ChangeTopic = "catalog_changed"
)

const GlobalPrefix = "global"

// CatalogChange is the body of a CatalogChanged message.
type CatalogChange struct {
	Source string `json:"source,omitempty"`
}
