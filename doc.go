/*
Package filestack is a Go SDK for the Filestack file-handling APIs: multipart
and intelligent-ingestion uploads, transformation URL building, and file
metadata, retrieval, and removal.

# Usage

	client, err := filestack.NewClient("MYAPIKEY")
	if err != nil {
	    return err
	}

	f, _ := os.Open("report.pdf")
	defer f.Close()

	link, err := client.Upload(ctx, f, upload.Options{
	    Filename:    "report.pdf",
	    Concurrency: 5,
	}, upload.StoreOptions{Location: "s3", Path: "reports/"})
	if err != nil {
	    return err
	}
	fmt.Println(link.Handle, link.URL)

Operations that mutate or expose private files (Remove, RemoveMetadata,
Overwrite) require a signed security policy:

	sec, _ := security.NewSecurity(security.Policy{
	    Expiry: time.Now().Add(time.Hour).Unix(),
	    Call:   []string{security.CallRemove},
	}, appSecret)

	client, _ = filestack.NewClient("MYAPIKEY", filestack.WithSecurity(sec))

Transformations are URL builders; no request is made until the URL is
fetched:

	url := client.Transform(link.Handle).
	    Resize(transform.ResizeParams{Width: 800}).
	    Sepia(transform.SepiaParams{Tone: 80}).
	    String()

Accounts with a custom CNAME configure it once and every host (API, upload,
CDN, process) is rewritten:

	client, _ = filestack.NewClient("MYAPIKEY", filestack.WithCname("fs.example.com"))
*/
package filestack
