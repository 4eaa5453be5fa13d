package transform

// ResizeParams control the resize task. Fit is one of clip, crop, scale, max.
type ResizeParams struct {
	Width  int
	Height int
	Fit    string
	Align  string
}

// Resize appends a resize task.
func (t *Transformation) Resize(p ResizeParams) *Transformation {
	var args []arg
	args = intArg(args, "width", p.Width)
	args = intArg(args, "height", p.Height)
	args = stringArg(args, "fit", p.Fit)
	args = stringArg(args, "align", p.Align)
	return t.add("resize", args...)
}

// CropParams control the crop task; Dim is x, y, width, height.
type CropParams struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Crop appends a crop task.
func (t *Transformation) Crop(p CropParams) *Transformation {
	return t.add("crop", listArg(nil, "dim", []int{p.X, p.Y, p.Width, p.Height})...)
}

// RotateParams control the rotate task. UseEXIF rotates according to the
// image's EXIF orientation and takes precedence over Degrees.
type RotateParams struct {
	Degrees    int
	UseEXIF    bool
	Background string
}

// Rotate appends a rotate task.
func (t *Transformation) Rotate(p RotateParams) *Transformation {
	var args []arg
	if p.UseEXIF {
		args = stringArg(args, "deg", "exif")
	} else {
		args = intArg(args, "deg", p.Degrees)
	}
	args = stringArg(args, "background", p.Background)
	return t.add("rotate", args...)
}

// Flip appends a vertical-mirror task.
func (t *Transformation) Flip() *Transformation {
	return t.add("flip")
}

// Flop appends a horizontal-mirror task.
func (t *Transformation) Flop() *Transformation {
	return t.add("flop")
}

// BlurParams control the blur task.
type BlurParams struct {
	Amount int
}

// Blur appends a blur task.
func (t *Transformation) Blur(p BlurParams) *Transformation {
	return t.add("blur", intArg(nil, "amount", p.Amount)...)
}

// SharpenParams control the sharpen task.
type SharpenParams struct {
	Amount int
}

// Sharpen appends a sharpen task.
func (t *Transformation) Sharpen(p SharpenParams) *Transformation {
	return t.add("sharpen", intArg(nil, "amount", p.Amount)...)
}

// SepiaParams control the sepia task.
type SepiaParams struct {
	Tone int
}

// Sepia appends a sepia task.
func (t *Transformation) Sepia(p SepiaParams) *Transformation {
	return t.add("sepia", intArg(nil, "tone", p.Tone)...)
}

// Monochrome appends a monochrome task.
func (t *Transformation) Monochrome() *Transformation {
	return t.add("monochrome")
}

// Negative appends a negative task.
func (t *Transformation) Negative() *Transformation {
	return t.add("negative")
}

// RoundedCornersParams control the rounded_corners task.
type RoundedCornersParams struct {
	Radius     int
	Blur       float64
	Background string
}

// RoundedCorners appends a rounded_corners task.
func (t *Transformation) RoundedCorners(p RoundedCornersParams) *Transformation {
	var args []arg
	args = intArg(args, "radius", p.Radius)
	args = floatArg(args, "blur", p.Blur)
	args = stringArg(args, "background", p.Background)
	return t.add("rounded_corners", args...)
}

// VignetteParams control the vignette task.
type VignetteParams struct {
	Amount     int
	BlurMode   string
	Background string
}

// Vignette appends a vignette task.
func (t *Transformation) Vignette(p VignetteParams) *Transformation {
	var args []arg
	args = intArg(args, "amount", p.Amount)
	args = stringArg(args, "blurmode", p.BlurMode)
	args = stringArg(args, "background", p.Background)
	return t.add("vignette", args...)
}

// PolaroidParams control the polaroid task.
type PolaroidParams struct {
	Color      string
	Rotate     int
	Background string
}

// Polaroid appends a polaroid task.
func (t *Transformation) Polaroid(p PolaroidParams) *Transformation {
	var args []arg
	args = stringArg(args, "color", p.Color)
	args = intArg(args, "rotate", p.Rotate)
	args = stringArg(args, "background", p.Background)
	return t.add("polaroid", args...)
}

// ShadowParams control the shadow task. Vector is the x and y offset of the
// shadow in pixels.
type ShadowParams struct {
	Blur       int
	Opacity    int
	Vector     []int
	Color      string
	Background string
}

// Shadow appends a shadow task.
func (t *Transformation) Shadow(p ShadowParams) *Transformation {
	var args []arg
	args = intArg(args, "blur", p.Blur)
	args = intArg(args, "opacity", p.Opacity)
	args = listArg(args, "vector", p.Vector)
	args = stringArg(args, "color", p.Color)
	args = stringArg(args, "background", p.Background)
	return t.add("shadow", args...)
}

// BorderParams control the border task.
type BorderParams struct {
	Width      int
	Color      string
	Background string
}

// Border appends a border task.
func (t *Transformation) Border(p BorderParams) *Transformation {
	var args []arg
	args = intArg(args, "width", p.Width)
	args = stringArg(args, "color", p.Color)
	args = stringArg(args, "background", p.Background)
	return t.add("border", args...)
}

// CompressParams control the compress task.
type CompressParams struct {
	Metadata bool
}

// Compress appends a compress task.
func (t *Transformation) Compress(p CompressParams) *Transformation {
	return t.add("compress", boolArg(nil, "metadata", p.Metadata)...)
}

// QualityParams control the quality task.
type QualityParams struct {
	Value int
}

// Quality appends a quality task.
func (t *Transformation) Quality(p QualityParams) *Transformation {
	return t.add("quality", intArg(nil, "value", p.Value)...)
}

// Zip appends a zip task, packaging the source into an archive.
func (t *Transformation) Zip() *Transformation {
	return t.add("zip")
}

// ASCIIParams control the ascii task.
type ASCIIParams struct {
	Background string
	Foreground string
	Colored    bool
	Size       int
}

// ASCII appends an ascii art task.
func (t *Transformation) ASCII(p ASCIIParams) *Transformation {
	var args []arg
	args = stringArg(args, "background", p.Background)
	args = stringArg(args, "foreground", p.Foreground)
	args = boolArg(args, "colored", p.Colored)
	args = intArg(args, "size", p.Size)
	return t.add("ascii", args...)
}

// WatermarkParams control the watermark task. File is the handle of the
// watermark image; Position is e.g. "top,right".
type WatermarkParams struct {
	File     string
	Size     int
	Position string
}

// Watermark appends a watermark task.
func (t *Transformation) Watermark(p WatermarkParams) *Transformation {
	var args []arg
	args = stringArg(args, "file", p.File)
	args = intArg(args, "size", p.Size)
	args = rawStringArg(args, "position", p.Position)
	return t.add("watermark", args...)
}

// OutputParams control the output (format conversion) task.
type OutputParams struct {
	Format   string
	Quality  int
	Density  int
	Page     int
	Compress bool
	DocInfo  bool
}

// Output appends an output conversion task.
func (t *Transformation) Output(p OutputParams) *Transformation {
	var args []arg
	args = stringArg(args, "format", p.Format)
	args = intArg(args, "quality", p.Quality)
	args = intArg(args, "density", p.Density)
	args = intArg(args, "page", p.Page)
	args = boolArg(args, "compress", p.Compress)
	args = boolArg(args, "docinfo", p.DocInfo)
	return t.add("output", args...)
}

// VideoConvertParams control the video_convert task. Preset names a service
// encoding preset such as "h264" or "webm".
type VideoConvertParams struct {
	Preset       string
	Width        int
	Height       int
	AspectMode   string
	FPS          int
	AudioBitrate int
	VideoBitrate int
	Watermark    string
}

// VideoConvert appends a video_convert task.
func (t *Transformation) VideoConvert(p VideoConvertParams) *Transformation {
	var args []arg
	args = stringArg(args, "preset", p.Preset)
	args = intArg(args, "width", p.Width)
	args = intArg(args, "height", p.Height)
	args = stringArg(args, "aspect_mode", p.AspectMode)
	args = intArg(args, "fps", p.FPS)
	args = intArg(args, "audio_bitrate", p.AudioBitrate)
	args = intArg(args, "video_bitrate", p.VideoBitrate)
	args = stringArg(args, "watermark", p.Watermark)
	return t.add("video_convert", args...)
}

// StoreParams control the store task, persisting the transformation result.
type StoreParams struct {
	Location     string
	Container    string
	Path         string
	Region       string
	Access       string
	Filename     string
	Base64Decode bool
}

// Store appends a store task.
func (t *Transformation) Store(p StoreParams) *Transformation {
	var args []arg
	args = stringArg(args, "location", p.Location)
	args = stringArg(args, "container", p.Container)
	args = stringArg(args, "path", p.Path)
	args = stringArg(args, "region", p.Region)
	args = stringArg(args, "access", p.Access)
	args = stringArg(args, "filename", p.Filename)
	args = boolArg(args, "base64decode", p.Base64Decode)
	return t.add("store", args...)
}
