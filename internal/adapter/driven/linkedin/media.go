package linkedin

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/socialpilot/socialpilot/internal/domain/model"
	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

const (
	recipeImage = "urn:li:digitalmediaRecipe:feedshare-image"
	recipeVideo = "urn:li:digitalmediaRecipe:feedshare-video"
)

type registerUploadRequest struct {
	RegisterUploadRequest registerUploadBody `json:"registerUploadRequest"`
}

type registerUploadBody struct {
	Recipes              string                `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []serviceRelationship `json:"serviceRelationships"`
}

type serviceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type registerUploadResponse struct {
	Value struct {
		Asset string `json:"asset"`
	} `json:"value"`
}

type uploadURLResponse struct {
	Value struct {
		UploadMechanism struct {
			MediaUploadHTTPRequest struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

type confirmUploadRequest struct {
	Patch confirmPatch `json:"patch"`
}

type confirmPatch struct {
	Set confirmSet `json:"$set"`
}

type confirmSet struct {
	Status string `json:"status"`
}

// RegisterUpload requests an upload slot for the declared media kind, owned
// by the credential's member.
func (c *Client) RegisterUpload(ctx context.Context, cred model.Credential, mediaType model.MediaType) (*driven.RegisteredUpload, error) {
	recipe := recipeImage
	if mediaType == model.MediaTypeVideo {
		recipe = recipeVideo
	}

	body := registerUploadRequest{
		RegisterUploadRequest: registerUploadBody{
			Recipes: recipe,
			Owner:   "urn:li:person:" + cred.MemberID,
			ServiceRelationships: []serviceRelationship{
				{RelationshipType: "OWNER", Identifier: "urn:li:userGeneratedContent"},
			},
		},
	}

	var resp registerUploadResponse
	if err := c.postJSON(ctx, cred.Token, c.apiBase+"/v2/assets?action=registerUpload", body, &resp); err != nil {
		return nil, fmt.Errorf("register upload: %w", err)
	}
	if resp.Value.Asset == "" {
		return nil, fmt.Errorf("register upload: response carried no asset reference")
	}

	return &driven.RegisteredUpload{AssetID: resp.Value.Asset}, nil
}

// FetchUploadURL retrieves the one-time binary upload target for a
// registered asset.
func (c *Client) FetchUploadURL(ctx context.Context, cred model.Credential, assetID string) (string, error) {
	apiURL := c.apiBase + "/v2/assets/" + url.PathEscape(assetID) + "?action=uploadUrl"

	var resp uploadURLResponse
	if err := c.getJSON(ctx, cred.Token, apiURL, &resp); err != nil {
		return "", fmt.Errorf("fetch upload url: %w", err)
	}

	uploadURL := resp.Value.UploadMechanism.MediaUploadHTTPRequest.UploadURL
	if uploadURL == "" {
		return "", fmt.Errorf("fetch upload url: response carried no upload target")
	}
	return uploadURL, nil
}

// UploadBinary transfers the media bytes to the upload target in a single
// PUT. The content type follows the declared media kind; anything outside
// image/video falls back to a generic octet stream.
func (c *Client) UploadBinary(ctx context.Context, uploadURL string, data []byte, mediaType model.MediaType) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeFor(mediaType))

	if err := c.do(req, c.uploadClient, nil); err != nil {
		return fmt.Errorf("upload binary: %w", err)
	}
	return nil
}

// ConfirmUpload marks the registered asset as available.
func (c *Client) ConfirmUpload(ctx context.Context, cred model.Credential, assetID string) error {
	body := confirmUploadRequest{
		Patch: confirmPatch{Set: confirmSet{Status: "AVAILABLE"}},
	}

	apiURL := c.apiBase + "/v2/assets/" + url.PathEscape(assetID)
	if err := c.postJSON(ctx, cred.Token, apiURL, body, nil); err != nil {
		return fmt.Errorf("confirm upload: %w", err)
	}
	return nil
}

func contentTypeFor(mediaType model.MediaType) string {
	switch mediaType {
	case model.MediaTypeImage:
		return "image/jpeg"
	case model.MediaTypeVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
