package domain

// StoreState classifies a corpus store on disk.
type StoreState string

const (
	StoreReady   StoreState = "ready"
	StoreMissing StoreState = "missing"
	StoreCorrupt StoreState = "corrupt"
	StoreError   StoreState = "error"
)

// StoreStatus describes the current corpus store.
type StoreStatus struct {
	Path       string     `json:"path"`
	State      StoreState `json:"state"`
	Chunks     int        `json:"chunks"`
	Sources    int        `json:"sources"`
	Dimensions int        `json:"dimensions"`
	Detail     string     `json:"detail,omitempty"`
}
