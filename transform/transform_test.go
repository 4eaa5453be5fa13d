package transform

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/filestack/filestack-go/security"
)

const testHandle = "bfTNCXh1QLerVQlvkYzZ"

type transformTestSuite struct {
	suite.Suite
}

func (s *transformTestSuite) TestHandleSource() {
	url := New(testHandle).
		Resize(ResizeParams{Width: 800, Height: 600, Fit: "crop"}).
		Sepia(SepiaParams{Tone: 80}).
		String()

	s.Equal("https://cdn.filestackcontent.com/resize=width:800,height:600,fit:crop/sepia=tone:80/"+testHandle, url)
}

func (s *transformTestSuite) TestExternalSource() {
	url := NewFromURL("MYAPIKEY", "https://example.com/image.jpg").
		Flip().
		String()

	s.Equal("https://cdn.filestackcontent.com/MYAPIKEY/flip/https://example.com/image.jpg", url)
}

func (s *transformTestSuite) TestSecuritySegment() {
	sec := security.Security{Policy: "cG9saWN5", Signature: "c2ln"}
	url := New(testHandle).
		WithSecurity(sec).
		Monochrome().
		String()

	s.Equal("https://cdn.filestackcontent.com/security=policy:cG9saWN5,signature:c2ln/monochrome/"+testHandle, url)
}

func (s *transformTestSuite) TestCustomHost() {
	url := New(testHandle).
		WithHost("https://cdn.fs.example.com/").
		Flop().
		String()

	s.Equal("https://cdn.fs.example.com/flop/"+testHandle, url)
}

func (s *transformTestSuite) TestZeroParamsRenderBareTaskName() {
	// zero-valued parameter structs are the "apply with defaults" shorthand
	url := New(testHandle).
		Blur(BlurParams{}).
		Sharpen(SharpenParams{}).
		Compress(CompressParams{}).
		Rotate(RotateParams{}).
		String()

	s.Equal("https://cdn.filestackcontent.com/blur/sharpen/compress/rotate/"+testHandle, url)
}

func (s *transformTestSuite) TestTaskRendering() {
	tests := []struct {
		name     string
		build    func(t *Transformation) *Transformation
		expected string
	}{
		{
			name:     "crop dims",
			build:    func(t *Transformation) *Transformation { return t.Crop(CropParams{X: 10, Y: 20, Width: 300, Height: 400}) },
			expected: "crop=dim:[10,20,300,400]",
		},
		{
			name:     "rotate by exif",
			build:    func(t *Transformation) *Transformation { return t.Rotate(RotateParams{UseEXIF: true}) },
			expected: "rotate=deg:exif",
		},
		{
			name: "rounded corners with float blur",
			build: func(t *Transformation) *Transformation {
				return t.RoundedCorners(RoundedCornersParams{Radius: 50, Blur: 0.5})
			},
			expected: "rounded_corners=radius:50,blur:0.5",
		},
		{
			name: "watermark",
			build: func(t *Transformation) *Transformation {
				return t.Watermark(WatermarkParams{File: testHandle, Size: 50, Position: "top,right"})
			},
			expected: "watermark=file:" + testHandle + ",size:50,position:top,right",
		},
		{
			name:     "output with booleans",
			build:    func(t *Transformation) *Transformation { return t.Output(OutputParams{Format: "pdf", DocInfo: true}) },
			expected: "output=format:pdf,docinfo:true",
		},
		{
			name: "video convert",
			build: func(t *Transformation) *Transformation {
				return t.VideoConvert(VideoConvertParams{Preset: "h264", Width: 1280, FPS: 30})
			},
			expected: "video_convert=preset:h264,width:1280,fps:30",
		},
		{
			name: "store",
			build: func(t *Transformation) *Transformation {
				return t.Store(StoreParams{Location: "s3", Container: "my-bucket", Path: "out/", Access: "public"})
			},
			expected: "store=location:s3,container:my-bucket,path:out/,access:public",
		},
		{
			name: "shadow",
			build: func(t *Transformation) *Transformation {
				return t.Shadow(ShadowParams{Blur: 4, Opacity: 60, Vector: []int{4, 4}})
			},
			expected: "shadow=blur:4,opacity:60,vector:[4,4]",
		},
		{
			name: "delimiters in string values are escaped",
			build: func(t *Transformation) *Transformation {
				return t.Store(StoreParams{Filename: "report,final:v2.pdf"})
			},
			expected: "store=filename:report%2Cfinal%3Av2.pdf",
		},
		{
			name:     "zip",
			build:    func(t *Transformation) *Transformation { return t.Zip() },
			expected: "zip",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			url := tt.build(New(testHandle)).String()
			s.Equal("https://cdn.filestackcontent.com/"+tt.expected+"/"+testHandle, url)
		})
	}
}

func (s *transformTestSuite) TestURL() {
	u, err := New(testHandle).Resize(ResizeParams{Width: 100}).URL()
	s.Require().NoError(err)
	s.Equal("cdn.filestackcontent.com", u.Host)
	s.Equal("/resize=width:100/"+testHandle, u.Path)
}

func (s *transformTestSuite) TestChainOrderPreserved() {
	url := New(testHandle).
		Rotate(RotateParams{Degrees: 90}).
		Resize(ResizeParams{Width: 100}).
		String()
	s.Equal("https://cdn.filestackcontent.com/rotate=deg:90/resize=width:100/"+testHandle, url)

	url = New(testHandle).
		Resize(ResizeParams{Width: 100}).
		Rotate(RotateParams{Degrees: 90}).
		String()
	s.Equal("https://cdn.filestackcontent.com/resize=width:100/rotate=deg:90/"+testHandle, url)
}

func TestTransform(t *testing.T) {
	suite.Run(t, new(transformTestSuite))
}
