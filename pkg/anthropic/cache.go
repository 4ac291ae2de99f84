package anthropic

// BuildCachedSystemBlocks returns the stage instruction as a single system
// block with a 5-minute cache breakpoint. The instruction is identical
// across the tool-loop turns and retries of a stage.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	if text == "" {
		return nil
	}
	return []SystemBlock{
		{
			Text:         text,
			CacheControl: &CacheControl{TTL: "5m"},
		},
	}
}
