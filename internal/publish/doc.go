// Package publish pushes evaluation reports to an external display over
// socket.io.
//
// The evaluation engine has no display of its own. A running dashboard
// listens on a socket.io namespace, and `block eval --publish URL` sends it
// one Report per evaluation: the requested value together with every output
// computed on the way. The event is emitted with an acknowledgement callback,
// so the listening handler must call its ack for the publish to succeed.
package publish
