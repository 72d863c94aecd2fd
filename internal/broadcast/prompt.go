package broadcast

import (
	"fmt"
	"strings"
	"time"
)

const promptPreamble = `In the style of a 1930's radio broadcaster, give a news update summarizing the below events.
Do not include prompts, headers, or asterisks in the output.
Do not read them all individually but group common events and summarize them.
Do not include sound or music prompts. Mention that the broadcast is for the current time of %s.
The news update should be verbose and loquacious but please do not refer to yourself as either.
The station name is %s and your radio broadcaster name is %s.
At some point in the broadcast advertise for a ridiculous fictional product from the 1930's or tell a joke, do not do both.
Give an introduction to the news report and a sign off.
Here are the events:`

// ComposePrompt builds the full script-generation instruction: the fixed
// broadcaster preamble followed by the collected events, joined by newlines,
// each event verbatim.
func ComposePrompt(station, broadcaster string, now time.Time, events []string) string {
	preamble := fmt.Sprintf(promptPreamble, now.Format("03:00 PM"), station, broadcaster)
	return preamble + "\n" + strings.Join(events, "\n")
}
