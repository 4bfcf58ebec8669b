package domain

// Field names a revenue event column a spreadsheet column can map to.
type Field string

const (
	FieldTerritory Field = "territory"
	FieldArtist    Field = "artist"
	FieldRelease   Field = "release"
	FieldTrack     Field = "track"
	FieldISRC      Field = "isrc"
	FieldDate      Field = "date"
	FieldAmount    Field = "amount"
	FieldPlayCount Field = "play_count"
)

// PlatformStrategy routes one platform's uploads into its store and tells
// which spreadsheet headers feed which field.
type PlatformStrategy struct {
	Name    string             `yaml:"name"`
	Aliases []string           `yaml:"aliases"`
	Store   string             `yaml:"store"`
	Columns map[Field][]string `yaml:"columns"`
}

type UnknownPlatformPolicy string

const (
	PolicyDrop   UnknownPlatformPolicy = "drop"
	PolicyReject UnknownPlatformPolicy = "reject"
	PolicyRaw    UnknownPlatformPolicy = "raw"
)

func (p UnknownPlatformPolicy) Valid() bool {
	switch p {
	case PolicyDrop, PolicyReject, PolicyRaw:
		return true
	}
	return false
}
