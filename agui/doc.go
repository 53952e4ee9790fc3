// Package agui provides utilities for integrating bowline with the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol that
// standardizes how AI agents connect to user-facing applications. This package
// converts between the AG-UI wire format and bowline types in both directions:
// incoming RunAgentInput requests become bowline messages and tools, and bowline
// run events become AG-UI protocol events.
//
// # Overview
//
// This package provides:
//   - [RunAgentInput]: the AG-UI request body, with [RunAgentInput.Prepare] for
//     validation and conversion
//   - [Mapper]: converts bowline run events to AG-UI events
//   - Message conversion utilities: [ToBowlineMessages], [FromBowlineMessages]
//   - [DecodeState]: typed access to frontend-provided state
//
// # Usage
//
// Prepare the incoming request, run the agent, and map the event stream:
//
//	input, err := runAgentInput.Prepare()
//	if err != nil {
//	    // reject the request
//	}
//
//	mapper := agui.NewMapper(input.ThreadID, input.RunID)
//	runCh := a.RunStream(ctx, input.Messages,
//	    agent.WithTools(input.BowlineTools()),
//	    agent.WithState(input.State),
//	)
//	for ev := range mapper.MapStream(runCh) {
//	    writeEvent(ev)
//	}
//
// # Event Mapping
//
// Each run event maps to at most one AG-UI event:
//
//   - RunStart/RunEnd/RunError → RUN_STARTED / RUN_FINISHED / RUN_ERROR
//   - MessageStart/MessageDelta/MessageEnd → TEXT_MESSAGE_START / _CONTENT / _END
//   - ToolCallStart/ToolCallArgs/ToolCallEnd → TOOL_CALL_START / _ARGS / _END
//   - ToolCallResult → TOOL_CALL_RESULT
//   - StateSnapshot → STATE_SNAPSHOT
//
// Nested runs are flattened: only the outermost RunStart/RunEnd pair produces
// lifecycle events, so composed agents present as a single AG-UI run.
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Each run should have its own
// Mapper instance. Message conversion functions are stateless and safe for
// concurrent use.
package agui
