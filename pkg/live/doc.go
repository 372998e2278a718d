// Package live serves an interactive preview of a routed site.
//
// Each WebSocket connection is a session owning its own router and view
// containers, created by a Factory. The browser sends navigation requests;
// the session runs them through its router and answers with a page-changed
// message followed by the attribute patches its containers produced.
//
// Wire messages are JSON text frames:
//
//	client → server  {"type":"navigate","path":"/docs/guide","replace":false}
//	server → client  {"type":"hello","session":"…"}
//	server → client  {"type":"page-changed","name":"guide","path":"/docs/guide"}
//	server → client  {"type":"patch","patches":[{"op":"SetAttr","hid":"h3","key":"active"}]}
//	server → client  {"type":"error","path":"/nope","error":"…"}
//
// Server mounts the shell page, the WebSocket endpoint and optional extra
// handlers (such as /metrics) on a chi router.
package live
