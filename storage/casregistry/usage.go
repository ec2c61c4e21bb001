package casregistry

// Usage says which kind of program may open a backend.
type Usage uint8

const (
	// UsageCLI marks backends available to one-shot commands such as
	// "opbench run".
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends available to "opbench serve".
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
