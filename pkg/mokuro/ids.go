package mokuro

import "github.com/google/uuid"

// idNamespace is the fixed namespace for identifiers derived from names.
// Changing it would re-key every derived series, so it is frozen.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// SeriesID derives a stable identifier from a series name. The same
// normalized name always yields the same identifier, which is what groups
// image-only volumes of one series imported at different times.
func SeriesID(name string) string {
	return uuid.NewSHA1(idNamespace, []byte("series:"+NormalizeTitle(name))).String()
}

// SeriesID returns the series identifier for the volume: the declared
// title_uuid when present, otherwise one derived from the series name.
func (v *Volume) SeriesID() string {
	if v.TitleUUID != "" {
		return v.TitleUUID
	}
	return SeriesID(v.SeriesName())
}

// VolumeID returns the volume identifier: the declared volume_uuid when
// present, otherwise one derived from the series and volume names.
func (v *Volume) VolumeID() string {
	if v.VolumeUUID != "" {
		return v.VolumeUUID
	}
	key := "volume:" + NormalizeTitle(v.SeriesName()) + "/" + NormalizeTitle(v.VolumeName)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
