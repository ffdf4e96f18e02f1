// Package annotations defines the reporting channel the transfer analyzer
// emits its findings to, along with the sinks shipped with the tool: a log
// sink, an in-memory collector and an Excel report writer.
package annotations
