package linkedin

import "fmt"

// DownloadError reports a failed image fetch.
type DownloadError struct {
	URL    string
	Status int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download image: %d", e.Status)
}

// RegistrationError reports a rejected upload registration.
type RegistrationError struct {
	Status int
	Body   string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register upload: %s", e.Body)
}

// UploadError reports a failed binary upload to the registered slot.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload image: %d, %s", e.Status, e.Body)
}

// PublishError reports a rejected post creation, carrying the
// platform's status code and response body.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to create post: %d, %s", e.Status, e.Body)
}
