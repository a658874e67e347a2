package model

// FaviconState represents whether a link has a cached icon.
type FaviconState string

const (
	FaviconAbsent  FaviconState = "absent"
	FaviconPresent FaviconState = "present"
)

// ComputeFaviconState returns the favicon state for a link.
func ComputeFaviconState(l *Link) FaviconState {
	if len(l.FaviconData) == 0 {
		return FaviconAbsent
	}
	return FaviconPresent
}

// SetFavicon records a successful fetch. Empty data leaves the state absent.
func (l *Link) SetFavicon(data []byte) {
	if len(data) == 0 {
		return
	}
	l.FaviconData = data
}

// ClearFavicon drops the cached icon so it is fetched again.
func (l *Link) ClearFavicon() {
	l.FaviconData = nil
}

// MissingFavicons returns the links whose favicon is absent.
func MissingFavicons(links []Link) []Link {
	var missing []Link
	for _, l := range links {
		if ComputeFaviconState(&l) == FaviconAbsent {
			missing = append(missing, l)
		}
	}
	return missing
}
