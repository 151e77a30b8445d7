package linkedin

import (
	"context"
	"fmt"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

type ugcPostRequest struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    commentary   `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media,omitempty"`
}

type commentary struct {
	Text string `json:"text"`
}

type shareMedia struct {
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Media       mediaRef `json:"media"`
}

type mediaRef struct {
	ID string `json:"id"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// CreatePost submits a UGC post. assetID references a confirmed upload and is
// empty for text-only posts. Visibility is always PUBLIC.
func (c *Client) CreatePost(ctx context.Context, cred model.Credential, text, assetID string, mediaType model.MediaType) error {
	author := "urn:li:person:me"
	if cred.MemberID != "" {
		author = "urn:li:person:" + cred.MemberID
	}

	content := shareContent{
		ShareCommentary:    commentary{Text: text},
		ShareMediaCategory: "NONE",
	}
	if assetID != "" {
		switch mediaType {
		case model.MediaTypeVideo:
			content.ShareMediaCategory = "VIDEO"
		default:
			content.ShareMediaCategory = "IMAGE"
		}
		content.Media = []shareMedia{
			{Status: "READY", Description: "text", Media: mediaRef{ID: assetID}},
		}
	}

	body := ugcPostRequest{
		Author:          author,
		LifecycleState:  "PUBLISHED",
		SpecificContent: specificContent{ShareContent: content},
		Visibility:      visibility{MemberNetworkVisibility: "PUBLIC"},
	}

	if err := c.postJSON(ctx, cred.Token, c.apiBase+"/v2/ugcPosts", body, nil); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}
