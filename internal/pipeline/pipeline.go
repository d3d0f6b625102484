// Package pipeline derives a single named variant from a source image:
// decode, plan geometry, transform, encode, name and upload.
package pipeline

import (
	"context"
	"image"

	"github.com/dkochetov/imgset/internal/codec"
	"github.com/dkochetov/imgset/internal/geometry"
	"github.com/dkochetov/imgset/internal/model"
	"github.com/dkochetov/imgset/internal/naming"
)

// uploader defines the storage operations the pipeline needs. The MinIO
// backend implements it; tests supply stubs.
type uploader interface {
	Upload(ctx context.Context, subdir, filename string, data []byte, contentType string) (string, error)
	PublicURL(path string) string
}

// Pipeline processes one VariantSpec at a time against a shared source
// image. It is stateless apart from its collaborators and safe for
// concurrent use.
type Pipeline struct {
	storage uploader
	subdir  string
}

// New creates a Pipeline uploading variants under the given storage subdirectory.
func New(storage uploader, subdir string) *Pipeline {
	return &Pipeline{storage: storage, subdir: subdir}
}

// Run produces one VariantResult for the given spec, or the first error
// encountered along the decode→transform→encode→name→upload chain.
// It performs no retries; failed uploads are not cleaned up.
func (p *Pipeline) Run(ctx context.Context, source model.SourceImage, batch model.BatchSpec, spec model.VariantSpec) (model.VariantResult, error) {
	img, err := codec.Decode(source.Data)
	if err != nil {
		return model.VariantResult{}, wrapErr(KindDecode, "decode source", err)
	}

	img, err = p.transform(img, batch, spec)
	if err != nil {
		return model.VariantResult{}, err
	}

	if spec.Watermark != "" {
		img = codec.Watermark(img, spec.Watermark)
	}

	data, err := codec.Encode(img, source.Type)
	if err != nil {
		return model.VariantResult{}, wrapErr(KindEncode, "encode variant", err)
	}

	omitExt := batch.OmitExtension
	if spec.OmitExtension != nil {
		omitExt = *spec.OmitExtension
	}

	tmpl := spec.NameTemplate
	if tmpl == "" {
		tmpl = batch.DefaultNameTemplate
	}

	filename, err := naming.Filename(tmpl, spec, source.Type, omitExt)
	if err != nil {
		return model.VariantResult{}, wrapErr(KindInvalidConfig, "render filename", err)
	}

	path, err := p.storage.Upload(ctx, p.subdir, filename, data, codec.ContentType(source.Type))
	if err != nil {
		return model.VariantResult{}, wrapErr(KindStorage, "upload variant", err)
	}

	return model.VariantResult{
		URL:      p.storage.PublicURL(path),
		Filename: filename,
	}, nil
}

// transform applies the resize and crop policies selected by the spec.
func (p *Pipeline) transform(img image.Image, batch model.BatchSpec, spec model.VariantSpec) (image.Image, error) {
	// Neither axis set: the variant passes through unmodified.
	if spec.TargetWidth == nil && spec.TargetHeight == nil {
		return img, nil
	}

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	switch {
	case spec.TargetWidth != nil && spec.TargetHeight != nil:
		tw, th := *spec.TargetWidth, *spec.TargetHeight

		switch {
		case spec.Crop && spec.Adapt.Enabled():
			// Contain into a padded canvas before the crop step.
			cw, ch := spec.Adapt.Canvas(tw, th)
			fill := spec.ColorPad
			if fill == "" {
				fill = batch.ColorPad
			}
			img = codec.ContainWithPad(img, cw, ch, codec.ParseColor(fill))
		case spec.Crop:
			size, err := geometry.PlanCover(imgW, imgH, tw, th)
			if err != nil {
				return nil, wrapErr(KindGeometry, "plan cover", err)
			}
			img = codec.Resize(img, size.Width, size.Height)
		default:
			size, err := geometry.PlanContainNoUpscale(imgW, imgH, tw, th)
			if err != nil {
				return nil, wrapErr(KindGeometry, "plan contain", err)
			}
			img = codec.Resize(img, size.Width, size.Height)
		}

		if spec.Crop {
			canvas := img.Bounds()
			off := geometry.PlanCropOffsets(canvas.Dx(), canvas.Dy(), tw, th, spec.CropTop, spec.CropLeft)
			img = codec.Crop(img, off.Left, off.Top, tw, th)
		}

	case spec.TargetWidth != nil:
		size, err := geometry.PlanSingleAxisMax(imgW, imgH, *spec.TargetWidth, geometry.AxisWidth)
		if err != nil {
			return nil, wrapErr(KindGeometry, "plan width max", err)
		}
		img = codec.Resize(img, size.Width, size.Height)

	default:
		size, err := geometry.PlanSingleAxisMax(imgW, imgH, *spec.TargetHeight, geometry.AxisHeight)
		if err != nil {
			return nil, wrapErr(KindGeometry, "plan height max", err)
		}
		img = codec.Resize(img, size.Width, size.Height)
	}

	return img, nil
}
