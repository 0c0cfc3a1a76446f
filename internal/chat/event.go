package chat

// Event is an input to Session.Update.
type Event interface {
	isEvent()
}

// SendEvent submits the input box.
type SendEvent struct {
	Text string
}

// ChatResultEvent carries the outcome of the chat request tagged Seq.
type ChatResultEvent struct {
	Seq     uint64
	Content string
	Err     error
}

// UploadEvent starts uploading the file at Path.
type UploadEvent struct {
	Path string
}

// UploadResultEvent carries the outcome of the upload tagged Seq. Err is a
// transport failure; a server-side rejection arrives in Result.Error.
type UploadResultEvent struct {
	Seq    uint64
	Result UploadResult
	Err    error
}

// ClearEvent wipes the conversation.
type ClearEvent struct{}

// ToggleDarkModeEvent flips the theme.
type ToggleDarkModeEvent struct{}

// DarkModeSyncedEvent reports the backend notification outcome. It never
// changes local state.
type DarkModeSyncedEvent struct {
	Enabled bool
	Err     error
}

// ModelSelectedEvent changes the model used for subsequent requests.
type ModelSelectedEvent struct {
	Model string
}

func (SendEvent) isEvent()           {}
func (ChatResultEvent) isEvent()     {}
func (UploadEvent) isEvent()         {}
func (UploadResultEvent) isEvent()   {}
func (ClearEvent) isEvent()          {}
func (ToggleDarkModeEvent) isEvent() {}
func (DarkModeSyncedEvent) isEvent() {}
func (ModelSelectedEvent) isEvent()  {}

// Effect is I/O requested by Session.Update. Performing it yields the
// matching result event.
type Effect interface {
	isEffect()
}

// ChatEffect asks for a chat call. Its result must come back as a
// ChatResultEvent with the same Seq.
type ChatEffect struct {
	Seq            uint64
	ConversationID string
	Request        ChatRequest
}

// UploadEffect asks for the file at Path to be uploaded.
type UploadEffect struct {
	Seq  uint64
	Path string
}

// DarkModeEffect asks for the theme to be persisted and mirrored.
type DarkModeEffect struct {
	Enabled bool
}

func (ChatEffect) isEffect()     {}
func (UploadEffect) isEffect()   {}
func (DarkModeEffect) isEffect() {}
