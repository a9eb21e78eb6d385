package flow

import (
	"fmt"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

// AudioResolver maps (emotion, stage) to the pre-generated audio asset URL.
// Stages whose content is generated at request time have no asset.
type AudioResolver struct {
	baseURL string
}

func NewAudioResolver(baseURL string) *AudioResolver {
	return &AudioResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the asset URL for a pre-recorded stage, or "" when the stage
// has no static audio.
func (r *AudioResolver) URL(emotion string, stage domain.Stage, hasAudio bool) string {
	if !hasAudio || r == nil || r.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/flow_conversations/%s/%s.mp3", r.baseURL, emotion, stage)
}

// ObjectKey is the bucket key the batch generator uploads a stage asset to.
// It mirrors the public URL layout so the CDN path stays stable.
func ObjectKey(emotion string, stage domain.Stage) string {
	return fmt.Sprintf("flow_conversations/%s/%s.mp3", emotion, stage)
}
