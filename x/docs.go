/*
Package x contains the authentication primitives shared by all extensions.

Extensions implement common functionality (Handler, Decorator, etc.) and
are combined together to construct an application. Handlers receive an
Authenticator in their constructor, so another authentication system can
be plugged in without touching the extension.

A ProgramSigner is the signing context of a program derived address. It is
passed explicitly to every operation executed on behalf of such an address
and is never stored in the context.
*/
package x
