// Package tasks implements the slash-command workflows of the bot.
//
// # Authentication
//
// [AuthFlow] drives the OAuth2 authorization-code handshake for one invocation of
// /authenticate. It sends a prompt with a link to the provider's consent page and a trigger
// action, then loops:
//
//	AwaitingTrigger --activation--> AwaitingFormInput --code--> Exchanging
//	       ^                              |                         |
//	       +-------- dismissed/invalid ---+------ failed/succeeded -+
//
// Each wait for the trigger has its own window ([AuthWindow]). When a window elapses the
// flow ends without sending anything. Failed exchanges, dismissed forms and rejected codes are
// reported to the user and the flow keeps waiting, so the same prompt can be retried and a
// successful authentication can be repeated to switch accounts.
//
// State transitions are published as [Update] values on an optional channel. Sends never
// block.
//
// # Playback
//
// [CurrentTask] reads the stored session and answers with the rendered card.
//
// # Interaction
//
// Tasks never talk to the chat platform directly. They receive an [Interaction], which the
// discord package implements on top of application command interactions.
package tasks
