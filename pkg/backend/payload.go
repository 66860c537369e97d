package backend

import "github.com/neatc0der/bacnet/pkg/bacnet"

// Wire shapes of the backend's JSON snapshots.

type objectPayload struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	ShortID       string                     `json:"short_id"`
	IsDevice      bool                       `json:"is_device"`
	IsLocalDevice bool                       `json:"is_local_device"`
	Properties    map[string]propertyPayload `json:"properties_dict"`
	Objects       map[string]objectPayload   `json:"objects_dict"`
	Address       addressPayload             `json:"address_dict"`
}

type propertyPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Updated *int   `json:"updated"`
}

type addressPayload struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func (p objectPayload) device(id string) *bacnet.Device {
	if p.ShortID != "" {
		id = p.ShortID
	}
	d := &bacnet.Device{
		ID:         id,
		Name:       p.Name,
		Address:    p.Address.Address,
		IsLocal:    p.IsLocalDevice,
		Objects:    make(map[string]*bacnet.Object, len(p.Objects)),
		Properties: make(map[string]*bacnet.Property, len(p.Properties)),
	}
	for name, prop := range p.Properties {
		d.Properties[name] = propPtr(prop.property(name))
	}
	for shortID, obj := range p.Objects {
		d.Objects[shortID] = obj.object(shortID)
	}
	return d
}

func (p objectPayload) object(shortID string) *bacnet.Object {
	if p.ShortID != "" {
		shortID = p.ShortID
	}
	o := &bacnet.Object{
		ID:         shortID,
		Category:   bacnet.CategoryFromShortID(shortID),
		Name:       p.Name,
		IsDevice:   p.IsDevice,
		Properties: make(map[string]*bacnet.Property, len(p.Properties)),
	}
	for name, prop := range p.Properties {
		o.Properties[name] = propPtr(prop.property(name))
	}
	return o
}

func (p propertyPayload) property(name string) bacnet.Property {
	if p.Name != "" {
		name = p.Name
	}
	updated := -1
	if p.Updated != nil {
		updated = *p.Updated
	}
	return bacnet.Property{
		Name:    name,
		Value:   p.Value,
		Updated: updated,
	}
}

func propPtr(p bacnet.Property) *bacnet.Property {
	return &p
}
