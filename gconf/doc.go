/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration of an extension.

Each extension keeps a single configuration object, saved under the "_c:"
prefixed name of the extension. It is loaded from the genesis file with
InitConfig and can later be changed by the configuration owner using the
UpdateConfigurationHandler.
*/
package gconf
