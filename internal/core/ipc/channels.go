package ipc

// Channel names a message route between the UI surface and the core.
type Channel string

// One-way notifications.
const (
	ChannelOpenMainWindow    Channel = "open-main-window"
	ChannelOpenFormWindow    Channel = "open-form-window"
	ChannelOpenSummaryWindow Channel = "open-summary-window"
	ChannelFormSubmitted     Channel = "form-submitted"
	ChannelStartTracking     Channel = "start-tracking"
	ChannelStopTracking      Channel = "stop-tracking"
	ChannelSaveMoodEntry     Channel = "save-mood-entry"
	ChannelApplySettings     Channel = "apply-settings"
	ChannelActivate          Channel = "activate"
	ChannelReady             Channel = "ready"
	ChannelQuit              Channel = "quit"
)

// Request/response calls.
const (
	ChannelGetMoodSummary      Channel = "get-mood-summary"
	ChannelEnableAutoLaunch    Channel = "enable-auto-launch"
	ChannelDisableAutoLaunch   Channel = "disable-auto-launch"
	ChannelIsAutoLaunchEnabled Channel = "is-auto-launch-enabled"
	ChannelGetStatus           Channel = "get-status"
)

// ChannelStatusChanged is pushed from the core to windows.
const ChannelStatusChanged Channel = "status-changed"
