package harmonyclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CapabilityVariable names a variable a collection's services can subset.
type CapabilityVariable struct {
	Name string `json:"name"`
	Href string `json:"href,omitempty"`
}

// CapabilityService describes one service chain available for a
// collection.
type CapabilityService struct {
	Name         string   `json:"name"`
	Href         string   `json:"href,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Capabilities describes what Harmony can do with a collection.
type Capabilities struct {
	ConceptID           string               `json:"conceptId"`
	ShortName           string               `json:"shortName"`
	VariableSubset      bool                 `json:"variableSubset"`
	BBoxSubset          bool                 `json:"bboxSubset"`
	ShapeSubset         bool                 `json:"shapeSubset"`
	Concatenate         bool                 `json:"concatenate"`
	Reproject           bool                 `json:"reproject"`
	OutputFormats       []string             `json:"outputFormats,omitempty"`
	Services            []CapabilityService  `json:"services,omitempty"`
	Variables           []CapabilityVariable `json:"variables,omitempty"`
	CapabilitiesVersion string               `json:"capabilitiesVersion,omitempty"`
}

// CapabilitiesParams selects the collection to describe, by concept id or
// short name. Exactly one must be set.
type CapabilitiesParams struct {
	CollectionID string
	ShortName    string
}

// Capabilities reports the service capabilities for a collection.
func (c *Client) Capabilities(ctx context.Context, params CapabilitiesParams, opts ...RequestOption) (*Capabilities, error) {
	if (params.CollectionID == "") == (params.ShortName == "") {
		return nil, fmt.Errorf("harmonyclient: exactly one of collection id or short name is required")
	}
	query := make(url.Values)
	if params.CollectionID != "" {
		query.Set("collectionId", params.CollectionID)
	} else {
		query.Set("shortName", params.ShortName)
	}

	var caps Capabilities
	if err := c.doJSON(ctx, http.MethodGet, "/capabilities", query, nil, &caps, opts); err != nil {
		return nil, err
	}
	return &caps, nil
}
