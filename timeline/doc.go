// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package timeline builds a viewer's feed for one calendar day.

The feed holds live answers from the viewer and the users the viewer follows,
minus anyone blocked in either direction. On-time answers come first, then
late ones, each group oldest first:

	feed, err := timeline.NewAssembler(s, cfg).Build(ctx, viewerID, "2024-05-01", 50)

A day with no published question has an empty feed.
*/
package timeline
