package model

// UserData is the locally stored session. There is no account backend; the
// record only remembers who signed in on this device.
type UserData struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Token is returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UploadedImage describes an image stored by the image store.
type UploadedImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}
