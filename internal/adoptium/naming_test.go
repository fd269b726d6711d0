package adoptium

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

const linuxListing = `<html><body><table>
<tr><td class="link"><a href="../" title="..">Parent directory/</a></td></tr>
<tr><td class="link"><a href="OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz" title="OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz">OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz</a></td></tr>
<tr><td class="link"><a href="OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz.sha256.txt" title="OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz.sha256.txt">sha</a></td></tr>
<tr><td class="link"><a href="OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz" title="OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz">OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz</a></td></tr>
</table></body></html>`

const windowsListing = `<a href="OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.msi" title="OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.msi">msi</a>
<a href="OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.zip" title="OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.zip">zip</a>`

// TestFindArchive picks the first archive for the requested kind.
func TestFindArchive(t *testing.T) {
	t.Parallel()

	name, err := FindArchive(linuxListing, 17, KindJRE)
	require.NoError(t, err)
	require.Equal(t, "OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz", name)

	name, err = FindArchive(linuxListing, 17, KindJDK)
	require.NoError(t, err)
	require.Equal(t, "OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz", name)

	name, err = FindArchive(windowsListing, 18, KindJRE)
	require.NoError(t, err)
	require.Equal(t, "OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.zip", name)
}

// TestFindArchive_NoMatch fails when no line has all three parts.
func TestFindArchive_NoMatch(t *testing.T) {
	t.Parallel()

	_, err := FindArchive(linuxListing, 11, KindJRE)
	require.ErrorIs(t, err, ErrNoMatchingArchive)
	require.ErrorIs(t, err, install.ErrManifest)

	// Prefix and extension without the implementation marker.
	_, err = FindArchive(`<a href="OpenJDK17U-jre_x64_linux_openj9_17.tar.gz" title="x">`, 17, KindJRE)
	require.ErrorIs(t, err, ErrNoMatchingArchive)

	// Missing title marker.
	_, err = FindArchive(`<a href="OpenJDK17U-jre_x64_linux_hotspot_17.tar.gz">`, 17, KindJRE)
	require.ErrorIs(t, err, ErrNoMatchingArchive)

	_, err = FindArchive("", 17, KindJRE)
	require.ErrorIs(t, err, ErrNoMatchingArchive)
}

// TestRootDirName recovers the extracted folder from the archive name.
func TestRootDirName(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, PatternRevision)

	name, err := RootDirName("OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz", KindJRE)
	require.NoError(t, err)
	require.Equal(t, "jdk-17.0.9+9-jre", name)

	name, err = RootDirName("https://m/18/jdk/x64/mac/OpenJDK18U-jdk_x64_mac_hotspot_18.0.2.1_1.tar.gz", KindJDK)
	require.NoError(t, err)
	require.Equal(t, "jdk-18.0.2.1+1", name)

	_, err = RootDirName("OpenJDK18U-jre_x64_windows_hotspot_18.0.2.1_1.zip", KindJRE)
	require.ErrorIs(t, err, ErrUnrecognizedArchiveName)

	_, err = RootDirName("OpenJDK18U-jre_hotspot_.tar.gz", KindJRE)
	require.ErrorIs(t, err, ErrUnrecognizedArchiveName)
}
