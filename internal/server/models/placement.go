package models

import "time"

// Default transform of a freshly uploaded image.
const (
	DefaultScale  = 1.0
	DefaultZIndex = 1
)

// Placement is one image on a day's collage. Filename is the blob key and
// is unique per user, so update and delete address placements by it.
type Placement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Date      string    `json:"date"`
	Filename  string    `json:"filename"`
	Caption   string    `json:"caption"`
	PositionX int       `json:"position_x"`
	PositionY int       `json:"position_y"`
	Rotation  float64   `json:"rotation"`
	Scale     float64   `json:"scale"`
	TiltX     float64   `json:"tilt_x"`
	TiltY     float64   `json:"tilt_y"`
	ZIndex    int       `json:"z_index"`
	CreatedAt time.Time `json:"created_at"`
}

// PlacementPatch is a partial transform update. Nil fields are left as they are.
type PlacementPatch struct {
	PositionX *int     `json:"position_x,omitempty"`
	PositionY *int     `json:"position_y,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
	Scale     *float64 `json:"scale,omitempty"`
	TiltX     *float64 `json:"tilt_x,omitempty"`
	TiltY     *float64 `json:"tilt_y,omitempty"`
	ZIndex    *int     `json:"z_index,omitempty"`
	Caption   *string  `json:"caption,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PlacementPatch) Empty() bool {
	return p.PositionX == nil && p.PositionY == nil &&
		p.Rotation == nil && p.Scale == nil &&
		p.TiltX == nil && p.TiltY == nil &&
		p.ZIndex == nil && p.Caption == nil
}
