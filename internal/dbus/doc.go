// Package dbus is a client for the org.freedesktop.Notifications D-Bus
// interface. It is used to surface alerts and screen flashes on desktops
// where no terminal is attached.
package dbus
