package testpdf

// Sample is a two-page guide used across packages: "Getting Started" (24pt)
// with an "Installation" subsection (18pt) that holds one image on page 1,
// and "Usage" (24pt) on page 2. Body text is 12pt.
func Sample() Document {
	return Document{
		Info: map[string]string{"Title": "User Guide", "Author": "Docs Team"},
		Pages: []Page{
			{
				Fonts: Helvetica(),
				Contents: []string{
					Text("F2", 24, 72, 700, "Getting Started") +
						Text("F1", 12, 72, 670, "This guide explains the basics.") +
						Text("F1", 12, 72, 655, "It has two chapters.") +
						Text("F2", 18, 72, 620, "Installation") +
						Text("F1", 12, 72, 600, "Run the installer.") +
						Draw("Im1", 72, 500, 50, 50),
				},
				Images: map[string]Image{
					"Im1": {Width: 1, Height: 1, ColorSpace: "/DeviceRGB", Data: []byte{10, 20, 30}},
				},
			},
			{
				Fonts: Helvetica(),
				Contents: []string{
					Text("F2", 24, 72, 700, "Usage") +
						Text("F1", 12, 72, 670, "Open a file and read it."),
				},
				Flate: true,
			},
		},
	}
}
