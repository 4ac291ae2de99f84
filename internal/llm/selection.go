package llm

// Selection is the backend choice resolved once at startup. Default serves
// stages without tools; Tools serves stages that bind tools.
type Selection struct {
	Default Backend
	Tools   Backend
}

// For returns the backend for a stage.
func (s Selection) For(withTools bool) Backend {
	if withTools && s.Tools != nil {
		return s.Tools
	}
	return s.Default
}

// Candidate is a backend that may or may not be usable.
type Candidate struct {
	Backend    Backend
	Configured bool
}

// toolPreference ranks providers for tool-using stages.
var toolPreference = []string{"gemini", "anthropic", "bedrock", "groq"}

// Select picks backends from candidates. With provider "auto" the first
// configured candidate serves as Default and tool stages prefer gemini or
// anthropic when configured. A named provider must be configured and serves
// both roles. It returns ErrNoBackend when nothing usable is found.
func Select(provider string, candidates []Candidate) (Selection, error) {
	configured := map[string]Backend{}
	var first Backend
	for _, c := range candidates {
		if !c.Configured || c.Backend == nil {
			continue
		}
		if _, dup := configured[c.Backend.Name()]; dup {
			continue
		}
		configured[c.Backend.Name()] = c.Backend
		if first == nil {
			first = c.Backend
		}
	}

	if provider != "" && provider != "auto" {
		b, ok := configured[provider]
		if !ok {
			return Selection{}, ErrNoBackend
		}
		return Selection{Default: b, Tools: b}, nil
	}

	if first == nil {
		return Selection{}, ErrNoBackend
	}
	sel := Selection{Default: first, Tools: first}
	for _, name := range toolPreference {
		if b, ok := configured[name]; ok {
			sel.Tools = b
			break
		}
	}
	return sel, nil
}
