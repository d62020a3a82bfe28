package events

type CommandLineEventType string

const (
	CommandLineSubscribeEvent = CommandLineEventType("Subscribe")
	CommandLineImportEvent    = CommandLineEventType("Import")
)

// CommandLineEvent is sent by the sessionsapi CLI when it invokes the
// deployed function directly.
type CommandLineEvent struct {
	SessionsCommand CommandLineEventType `json:"sessionsCommand"`
	Subscribe       *SubscribeRequest    `json:"subscribe,omitempty"`
	Import          *ImportEvent         `json:"import,omitempty"`
}

type SubscribeResponse struct {
	Success bool
	Result  string
	Details string
}

type ImportEvent struct {
	Addresses []string
}

// ImportResponse counts imported addresses by the result of subscribing each
// one, such as "Subscribed" or "SubscribedInBulk".
type ImportResponse struct {
	NumImported int
	Results     map[string]int
	Failures    []string
}
