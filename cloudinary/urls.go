package cloudinary

import "fmt"

const deliveryBaseURL = "https://res.cloudinary.com"

// Delivery URL builders. These are pure string assembly over the asset's
// public ID, no network call happens until a client actually fetches the URL.

// VideoThumbnailURL returns a small cropped still frame of the video,
// delivered as a jpg.
func (c *Client) VideoThumbnailURL(publicID string) string {
	return c.videoURL("w_480,h_270,c_fill,g_auto,q_auto", publicID, "jpg")
}

// VideoPreviewURL returns a short looping preview clip: at most 15 seconds
// sampled from up to 9 segments of the source.
func (c *Client) VideoPreviewURL(publicID string) string {
	return c.videoURL("w_1920,h_1080/e_preview:duration_15:max_seg_9:min_seg_dur_1", publicID, "mp4")
}

// VideoDownloadURL returns the full asset at full-frame dimensions.
func (c *Client) VideoDownloadURL(publicID string) string {
	return c.videoURL("w_1920,h_1080", publicID, "mp4")
}

func (c *Client) videoURL(transformation, publicID, format string) string {
	return fmt.Sprintf("%s/%s/video/upload/%s/%s.%s",
		deliveryBaseURL, c.CloudName, transformation, publicID, format)
}
