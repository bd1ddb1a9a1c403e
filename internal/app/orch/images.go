package orch

import (
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/rs/zerolog/log"
)

const defaultImageSize = 256

// getImage fetches the image off the loop and replies from the loop.
// Overlay keys are resolved to the upstream key, and the cached cover
// travels along as the unscaled image.
func (o *Orchestrator) getImage(sid core.SessionID, c GetImageCommand) {
	size := c.ImageSize
	if size <= 0 {
		size = defaultImageSize
	}
	key := c.ImageKey
	var unscaled []byte
	var unscaledType string
	if hit, ok := o.Overlay.Image(c.ImageKey); ok {
		if hit.UpstreamKey == "" {
			o.replyCover(sid, c, hit.Cover, hit.CoverType)
			return
		}
		key = hit.UpstreamKey
		unscaled, unscaledType = hit.Cover, hit.CoverType
	}
	opts := core.ImageOptions{Scale: "fit", Width: size, Height: size, Format: "image/jpeg"}

	o.spawn(func() {
		img, err := o.Upstream.GetImage(o.ctx, key, opts)
		metrics.UpstreamCalls.WithLabelValues("get_image", metrics.Result(err)).Inc()
		o.Post(func() {
			payload := ImagePayload{
				ImageKey: c.ImageKey,
				ImageTag: c.ImageTag,
				Unscaled: domain.Blob(unscaled),
			}
			switch {
			case err == nil:
				payload.ContentType = img.ContentType
				payload.Body = domain.Blob(img.Body)
			case unscaled != nil:
				payload.ContentType = unscaledType
			default:
				log.Warn().Err(err).Str("module", "orch").Str("image_key", key).Msg("image fetch failed")
				return
			}
			o.sendImage(sid, payload)
		})
	})
}

// replyCover answers an overlay key whose feed has no upstream image
// yet. Only the cached cover can serve it.
func (o *Orchestrator) replyCover(sid core.SessionID, c GetImageCommand, cover []byte, ctype string) {
	if cover == nil {
		log.Warn().Str("module", "orch").Str("image_key", c.ImageKey).Msg("no image for overlay key")
		return
	}
	o.sendImage(sid, ImagePayload{
		ImageKey:    c.ImageKey,
		ContentType: ctype,
		Body:        domain.Blob(cover),
		Unscaled:    domain.Blob(cover),
		ImageTag:    c.ImageTag,
	})
}

func (o *Orchestrator) sendImage(sid core.SessionID, payload ImagePayload) {
	o.reply(sid, SetImageMessage{
		Command:   cmdSetImage,
		Timestamp: o.now().UnixMilli(),
		Image:     payload,
	})
}
