package vcxproj

import "strings"

// Identifiers Visual Studio assigns to the two stock filter groups.
const (
	sourceFilesID = "{4FC737F1-C7A5-4376-A066-2A32D752A2FF}"
	headerFilesID = "{93995380-89BD-4b04-88EB-625FBE52EBFB}"
)

const (
	sourceFilesExtensions = "cpp;c;cc;cxx;c++;cppm;ixx;def;odl;idl;hpj;bat;asm;asmx"
	headerFilesExtensions = "h;hh;hpp;hxx;h++;hm;inl;inc;ipp;xsd"
)

// scaffoldContent is the baseline hierarchy document written when a
// project has no filters companion yet. It mirrors what Visual Studio
// generates for a fresh project.
func scaffoldContent() string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<Project ToolsVersion=\"4.0\" xmlns=\"http://schemas.microsoft.com/developer/msbuild/2003\">\n")
	b.WriteString("  <ItemGroup>\n")
	b.WriteString("    <Filter Include=\"Source Files\">\n")
	b.WriteString("      <UniqueIdentifier>" + sourceFilesID + "</UniqueIdentifier>\n")
	b.WriteString("      <Extensions>" + sourceFilesExtensions + "</Extensions>\n")
	b.WriteString("    </Filter>\n")
	b.WriteString("    <Filter Include=\"Header Files\">\n")
	b.WriteString("      <UniqueIdentifier>" + headerFilesID + "</UniqueIdentifier>\n")
	b.WriteString("      <Extensions>" + headerFilesExtensions + "</Extensions>\n")
	b.WriteString("    </Filter>\n")
	b.WriteString("  </ItemGroup>\n")
	b.WriteString("</Project>\n")
	return b.String()
}
